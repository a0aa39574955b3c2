// Command lambda serves the company REST API behind API Gateway. The
// gateway authorizes requests, so no token middleware is mounted here.
package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/app"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/config"
	"go.uber.org/zap"
)

var (
	chiLambda *chiadapter.ChiLambda
	logger    *zap.Logger
)

// init runs during cold start
func init() {
	coldStartTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err = cfg.NewLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}

	chiLambda = chiadapter.New(a.Router())

	logger.Info("Lambda cold start completed", zap.Duration("duration", time.Since(coldStartTime)))
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.Info("event",
		zap.String("method", req.HTTPMethod),
		zap.String("path", req.Path),
		zap.String("request_id", req.RequestContext.RequestID),
	)

	resp, err := chiLambda.ProxyWithContext(ctx, req)
	if err != nil {
		logger.Error("Failed to proxy request", zap.Error(err))
	}
	return resp, err
}

func main() {
	defer logger.Sync() //nolint:errcheck
	lambda.Start(Handler)
}

// Package app wires the company service from configuration. Each entry
// point builds one App per process and reuses it for every request.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/config"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/controller"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/db"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/events"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type App struct {
	Service *controller.CompanyService
	Handler *handlers.CompanyHandler
	logger  *zap.Logger
	closers []func()
}

// New connects to DynamoDB and, when brokers are configured, to Kafka.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	client, err := db.NewClient(ctx, &db.ClientConfig{
		Region:         cfg.AWSRegion,
		Endpoint:       cfg.DynamoDBEndpoint,
		ConnectTimeout: cfg.ConnectTimeout(),
		RequestTimeout: cfg.RequestTimeout(),
		EnableTracing:  cfg.EnableTracing,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dynamodb client: %w", err)
	}

	repo := db.NewRepository(client, &db.Config{
		TableName:                  cfg.CompaniesTableName,
		IndustryCreatedAtIndexName: cfg.CompaniesTableIndustryCreatedAtIndexName,
	}, logger)

	a := &App{logger: logger}

	var producer controller.EventProducer = events.NopProducer{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Kafka producer: %w", err)
		}
		a.closers = append(a.closers, p.Close)
		producer = p
	} else {
		logger.Info("KAFKA_BROKERS not set, company events disabled")
	}

	a.Service = controller.NewCompanyService(repo, producer, logger)
	a.Handler = handlers.NewCompanyHandler(a.Service, logger)
	return a, nil
}

// Router returns the company routes guarded by middlewares.
func (a *App) Router(middlewares ...func(next http.Handler) http.Handler) *chi.Mux {
	return handlers.NewRouter(a.Handler, a.logger, middlewares...)
}

// Close releases the Kafka producer, if any.
func (a *App) Close() {
	for _, c := range a.closers {
		c()
	}
}

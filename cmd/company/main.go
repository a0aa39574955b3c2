// Command company runs the company REST API as a standalone HTTP server,
// e.g. against DynamoDB Local.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/app"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/auth"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/config"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/handlers"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	var middlewares []func(http.Handler) http.Handler
	if cfg.JWTSecret != "" {
		middlewares = append(middlewares, auth.Middleware(cfg.JWTSecret, logger))
	} else {
		logger.Warn("JWT_SECRET not set, requests are not authenticated")
	}

	server := handlers.NewServer(cfg.HTTPPort, a.Router(middlewares...), logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}

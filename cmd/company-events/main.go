// Command company-events tails the company notification topic and logs
// every event.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/config"
	"github.com/classmethod/icasu-cdk-serverless-api-sample/internal/company/events"
	"go.uber.org/zap"
)

const groupID = "company-events-logger"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if len(cfg.KafkaBrokers) == 0 {
		logger.Fatal("KAFKA_BROKERS is required")
	}

	consumer := events.NewConsumer(cfg.KafkaBrokers, groupID, cfg.Topic, logger)
	defer consumer.Close()
	consumer.RegisterHandler(logEvent(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Consuming company events", zap.String("topic", cfg.Topic))
	consumer.Run(ctx)
}

func logEvent(logger *zap.Logger) func(context.Context, events.Event) error {
	return func(_ context.Context, e events.Event) error {
		logger.Info("Company event",
			zap.String("type", string(e.Type)),
			zap.String("company_id", e.Company.ID),
			zap.String("name", e.Company.Name),
			zap.Int64("created_at", e.Company.CreatedAt),
		)
		return nil
	}
}

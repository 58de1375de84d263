package app

import (
	"context"
	"os/signal"
	"syscall"

	"hr-ops/internal/config"
	"hr-ops/internal/messaging/kafka"
	"hr-ops/internal/messaging/kafka/producer"
	"hr-ops/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker publishes outbox events to Kafka until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	broker, err := connection.BrokerAddr(cfg.Kafka.Broker)
	if err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(broker, cfg.Kafka.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, logger, cfg.Kafka.PollInterval)

	logger.Info("worker shut down")
	return nil
}

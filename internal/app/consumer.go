package app

import (
	"context"
	"os/signal"
	"syscall"

	"hr-ops/internal/config"
	"hr-ops/internal/employee"
	"hr-ops/internal/events"
	"hr-ops/internal/messaging/kafka/consumer"
	"hr-ops/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer syncs Zoho timelogs and leaves for every imported attendance
// range until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

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

	timelogService, leaveService := newSyncServices(cfg, sqlDB, gormDB, employee.NewRepository(gormDB), zap.L())

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          events.AttendanceImportedTopic,
		GroupID:        cfg.Kafka.ConsumerGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeAttendanceImported(ctx, reader, timelogService, leaveService, logger)

	logger.Info("consumer shut down")
	return nil
}

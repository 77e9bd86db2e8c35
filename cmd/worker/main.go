package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/config"
	"github.com/Jigar634859/skyportal/internal/email"
	"github.com/Jigar634859/skyportal/internal/kafka"
	"github.com/Jigar634859/skyportal/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer lg.Sync()

	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.NotificationsTopic == "" {
		lg.Fatal("kafka.brokers and kafka.notifications_topic are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, lg.Named("kafka"))
	defer consumer.Close()

	sender := email.NewSender(lg.Named("email"))

	lg.Info("notifications worker started",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.NotificationsTopic),
		zap.String("group", cfg.Kafka.GroupID))

	err = consumer.ConsumeEvents(ctx, sender.Send)
	if err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("consumer stopped", zap.Error(err))
		return
	}
	lg.Info("notifications worker stopped")
}

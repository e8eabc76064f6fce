package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/skyrocket/config"
	"github.com/Domenick1991/skyrocket/internal/email"
	"github.com/Domenick1991/skyrocket/internal/kafka"
	"github.com/Domenick1991/skyrocket/internal/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	lg := logger.Init("skyrocket-worker", cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, lg)
	defer consumer.Close()

	sender := email.NewSender(lg)

	lg.Info().Str("topic", cfg.Kafka.NotificationsTopic).Msg("worker started")
	err = consumer.BookingEvents(ctx, func(ctx context.Context, event kafka.BookingEvent) error {
		if err := sender.Send(ctx, event); err != nil {
			lg.Warn().Err(err).Str("type", event.Type).Msg("notification not sent")
		}
		return nil
	})
	if err != nil {
		lg.Error().Err(err).Msg("consumer stopped")
		return
	}
	lg.Info().Msg("worker stopped")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/skyrocket/api"
	"github.com/Domenick1991/skyrocket/config"
	"github.com/Domenick1991/skyrocket/internal/bootstrap"
	"github.com/Domenick1991/skyrocket/internal/cache"
	"github.com/Domenick1991/skyrocket/internal/client"
	"github.com/Domenick1991/skyrocket/internal/kafka"
	"github.com/Domenick1991/skyrocket/internal/logger"
	"github.com/Domenick1991/skyrocket/internal/repository"
	"github.com/gin-gonic/gin"
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
	lg := logger.Init("skyrocket-app", cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]bootstrap.Check{}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.OffersCacheTTL)*time.Second)
	defer redisCache.Close()
	checks["redis"] = redisCache.Ping

	producer := kafka.NewProducer(cfg.Kafka.Brokers, lg)
	defer producer.Close()
	checks["kafka"] = producer.CheckConnection

	deps := client.Deps{
		BaseURL:            cfg.Backend.BaseURL,
		Timeout:            time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		Providers:          cfg.Backend.OAuthProviders,
		OfferCache:         redisCache,
		Claimer:            redisCache,
		ClaimTTL:           time.Duration(cfg.Booking.CallbackClaimTTL) * time.Second,
		Producer:           producer,
		BookingTopic:       cfg.Kafka.BookingTopic,
		NotificationsTopic: cfg.Kafka.NotificationsTopic,
		Log:                lg,
	}

	if cfg.Backend.Mode == config.BackendModePostgres {
		pool, err := repository.NewPool(ctx, cfg.Database)
		if err != nil {
			lg.Fatal().Err(err).Msg("connect postgres")
		}
		defer pool.Close()
		checks["postgres"] = pool.Ping

		deps.Repositories = &client.Repositories{
			Offers:    repository.NewOfferRepository(pool),
			Flights:   repository.NewFlightRepository(pool),
			Users:     repository.NewUserRepository(pool),
			Addresses: repository.NewAddressRepository(pool),
			Sessions:  repository.NewSessionRepository(pool, redisCache),
		}
	}

	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	registry := client.NewRegistry(cfg.Session.Secret, sessionTTL, client.NewFactory(deps), lg)
	go registry.Run(ctx, time.Duration(cfg.Worker.SessionSweepSeconds)*time.Second)

	router := api.NewRouter(registry, api.RouterConfig{
		Cookie: api.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    sessionTTL,
			Secure: cfg.Session.Secure,
		},
		ReconcileTimeout: time.Duration(cfg.Booking.ReconcileTimeout) * time.Second,
	}, lg)

	lg.Info().Str("backend_mode", cfg.Backend.Mode).Msg("starting")
	if err := bootstrap.Run(ctx, cfg, router, checks, lg); err != nil {
		lg.Fatal().Err(err).Msg("server error")
	}
}

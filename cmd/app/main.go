package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/api"
	"github.com/Jigar634859/skyportal/config"
	"github.com/Jigar634859/skyportal/internal/bootstrap"
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

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The API is the server side of the remote backend; it always serves local state.
	if cfg.Backend.Kind != config.BackendLocal {
		lg.Warn("api server ignores backend.kind and serves the local backend", zap.String("kind", cfg.Backend.Kind))
		cfg.Backend.Kind = config.BackendLocal
	}

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	// Caller identity comes from each request's bearer token, never from a
	// process-wide session.
	repos, err := bootstrap.NewRepositories(ctx, cfg, store, nil, lg)
	if err != nil {
		return err
	}

	flightCache, closeCache := bootstrap.NewFlightCache(cfg)
	defer closeCache()

	deps := bootstrap.ServiceDeps{Cache: flightCache}
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, lg.Named("kafka"))
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			lg.Warn("kafka unreachable, booking events will be dropped until it recovers", zap.Error(err))
		}
		deps.Producer = producer
		deps.BookingTopic = cfg.Kafka.BookingTopic
		deps.NotificationsTopic = cfg.Kafka.NotificationsTopic
		deps.PublishAttempts = cfg.Kafka.PublishAttempts
	}
	svc := bootstrap.NewServices(repos, nil, deps, lg)

	if cfg.Log.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterConfig{
		Flights:        svc.Flights,
		Bookings:       svc.Bookings,
		Auth:           svc.Auth,
		Issuer:         repos.Issuer,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         lg.Named("http"),
	})
	return bootstrap.Run(ctx, cfg.HTTP, router, lg)
}

package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/config"
	"github.com/Jigar634859/skyportal/internal/repository"
	"github.com/Jigar634859/skyportal/internal/repository/local"
	"github.com/Jigar634859/skyportal/internal/repository/remote"
	"github.com/Jigar634859/skyportal/internal/session"
	"github.com/Jigar634859/skyportal/internal/storage"
	"github.com/Jigar634859/skyportal/internal/token"
)

// Repositories is the data access bundle behind every service. Callers
// cannot tell which backend produced it.
type Repositories struct {
	Kind     string
	Flights  repository.FlightRepository
	Bookings repository.BookingRepository
	Auth     repository.AuthRepository
	// Issuer verifies tokens minted by the local backend. Nil for remote.
	Issuer *token.Issuer
}

// NewRepositories selects the backend once from cfg.Backend.Kind. store
// holds the local backend's collections and is unused by the remote one.
func NewRepositories(ctx context.Context, cfg *config.Config, store storage.Store, sessions *session.Store, logger *zap.Logger) (*Repositories, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend.Kind {
	case config.BackendLocal:
		return newLocal(ctx, cfg, store, sessions, logger)
	case config.BackendRemote:
		return newRemote(cfg, sessions, logger)
	}
	return nil, fmt.Errorf("unknown backend kind %q", cfg.Backend.Kind)
}

func newLocal(ctx context.Context, cfg *config.Config, store storage.Store, sessions *session.Store, logger *zap.Logger) (*Repositories, error) {
	if store == nil {
		return nil, fmt.Errorf("local backend needs a store")
	}
	db, err := local.Open(ctx, store, local.WithLogger(logger.Named("local")))
	if err != nil {
		return nil, fmt.Errorf("open local backend: %w", err)
	}
	issuer := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	demo := cfg.Backend.Local.DemoMode
	if demo {
		logger.Info("local backend in demo mode: any email signs in and every booking is visible")
	}
	logger.Info("backend selected", zap.String("kind", config.BackendLocal), zap.Bool("demo", demo))

	return &Repositories{
		Kind:     config.BackendLocal,
		Flights:  local.NewFlightRepository(db),
		Bookings: local.NewBookingRepository(db, sessions, demo),
		Auth: local.NewAuthRepository(db, issuer, local.AuthConfig{
			AdminUsername: cfg.Backend.Local.AdminUsername,
			AdminPassword: cfg.Backend.Local.AdminPassword,
			DemoMode:      demo,
			BcryptCost:    cfg.Auth.BcryptCost,
		}),
		Issuer: issuer,
	}, nil
}

func newRemote(cfg *config.Config, sessions *session.Store, logger *zap.Logger) (*Repositories, error) {
	rc := cfg.Backend.Remote
	client, err := remote.NewClient(remote.Config{
		BaseURL:           rc.BaseURL,
		Timeout:           rc.Timeout(),
		RequestsPerSecond: rc.RequestsPerSecond,
		Burst:             rc.Burst,
	}, sessions, remote.WithLogger(logger.Named("remote")))
	if err != nil {
		return nil, err
	}
	logger.Info("backend selected", zap.String("kind", config.BackendRemote), zap.String("base_url", rc.BaseURL))

	return &Repositories{
		Kind:     config.BackendRemote,
		Flights:  remote.NewFlightRepository(client),
		Bookings: remote.NewBookingRepository(client),
		Auth:     remote.NewAuthRepository(client),
	}, nil
}

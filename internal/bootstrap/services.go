package bootstrap

import (
	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/config"
	"github.com/Jigar634859/skyportal/internal/cache"
	"github.com/Jigar634859/skyportal/internal/service/auth"
	"github.com/Jigar634859/skyportal/internal/service/booking"
	"github.com/Jigar634859/skyportal/internal/service/flights"
	"github.com/Jigar634859/skyportal/internal/session"
)

type Services struct {
	Flights  *flights.FlightService
	Bookings *booking.BookingService
	Auth     *auth.AuthService
}

type ServiceDeps struct {
	Cache              flights.FlightCache
	Producer           booking.Producer
	BookingTopic       string
	NotificationsTopic string
	PublishAttempts    int
}

// NewServices builds the use cases over repos. sessions may be nil, in which
// case logins are not remembered.
func NewServices(repos *Repositories, sessions *session.Store, deps ServiceDeps, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	bookingOpts := []booking.BookingServiceOption{booking.WithLogger(logger.Named("booking"))}
	if deps.Producer != nil {
		bookingOpts = append(bookingOpts,
			booking.WithEvents(deps.Producer, deps.BookingTopic),
			booking.WithNotificationsTopic(deps.NotificationsTopic))
		if deps.PublishAttempts > 0 {
			bookingOpts = append(bookingOpts, booking.WithPublishAttempts(deps.PublishAttempts))
		}
	}
	return &Services{
		Flights:  flights.NewFlightService(repos.Flights, deps.Cache, flights.WithLogger(logger.Named("flights"))),
		Bookings: booking.NewBookingService(repos.Bookings, bookingOpts...),
		Auth:     auth.NewAuthService(repos.Auth, sessions, auth.WithLogger(logger.Named("auth"))),
	}
}

// NewFlightCache returns the flight list cache named by cfg.Cache.Driver, or
// nil when caching is off.
func NewFlightCache(cfg *config.Config) (flights.FlightCache, func()) {
	switch cfg.Cache.Driver {
	case config.CacheRedis:
		c := cache.NewRedisCache(cfg.Redis, cfg.Storage.KeyPrefix, cfg.Cache.FlightsTTL())
		return c, func() { _ = c.Close() }
	case config.CacheMemory:
		return cache.NewMemoryCache(cfg.Cache.FlightsTTL()), func() {}
	}
	return nil, func() {}
}

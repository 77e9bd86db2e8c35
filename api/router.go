package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/internal/service/auth"
	"github.com/Jigar634859/skyportal/internal/service/booking"
	"github.com/Jigar634859/skyportal/internal/service/flights"
	"github.com/Jigar634859/skyportal/internal/token"
)

const BasePath = "/api"

type RouterConfig struct {
	Flights        flights.FlightUseCase
	Bookings       booking.BookingUseCase
	Auth           auth.AuthUseCase
	Issuer         *token.Issuer
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group(BasePath, Authenticate(cfg.Issuer, logger))
	admin := public.Group("", RequireAdmin())
	authed := public.Group("", RequireAuth())

	NewAuthHandler(cfg.Auth).Register(public)
	NewFlightHandler(cfg.Flights).Register(public, admin)
	NewBookingHandler(cfg.Bookings).Register(authed)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/session"
	"github.com/Jigar634859/skyportal/internal/token"
	"github.com/Jigar634859/skyportal/internal/wire"
)

const claimsKey = "claims"

// Authenticate parses an optional bearer token. A user token puts the
// caller's profile on the request context. An unusable token leaves the
// request anonymous so public routes keep working.
func Authenticate(issuer *token.Issuer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader(wire.HeaderAuthorize), wire.BearerPrefix)
		if !ok || raw == "" {
			c.Next()
			return
		}
		claims, err := issuer.Parse(raw)
		if err != nil {
			logger.Debug("ignoring bearer token", zap.Error(err))
			c.Next()
			return
		}
		c.Set(claimsKey, claims)
		if claims.User != nil {
			c.Request = c.Request.WithContext(session.ContextWithUser(c.Request.Context(), *claims.User))
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			respondError(c, fmt.Errorf("admin route: %w", domain.ErrInvalidCredentials))
			return
		}
		if claims.Role != domain.RoleAdmin {
			respondError(c, errForbidden)
			return
		}
		c.Next()
	}
}

// RequireAuth admits any valid credential.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := claimsFrom(c); !ok {
			respondError(c, fmt.Errorf("sign in required: %w", domain.ErrInvalidCredentials))
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			logger.Error("request failed", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}

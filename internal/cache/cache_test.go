package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jigar634859/skyportal/config"
	"github.com/Jigar634859/skyportal/internal/domain"
)

func TestMemoryCache_ExpiresAndInvalidates(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(30 * time.Second)
	c.now = func() time.Time { return now }

	got, err := c.GetFlights(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	flights := []domain.Flight{{ID: 1, Code: "AI-101"}}
	require.NoError(t, c.SetFlights(ctx, flights))
	got, err = c.GetFlights(ctx)
	require.NoError(t, err)
	assert.Equal(t, flights, got)

	got[0].Code = "mutated"
	again, _ := c.GetFlights(ctx)
	assert.Equal(t, "AI-101", again[0].Code)

	now = now.Add(31 * time.Second)
	got, _ = c.GetFlights(ctx)
	assert.Nil(t, got)

	require.NoError(t, c.SetFlights(ctx, flights))
	require.NoError(t, c.InvalidateFlights(ctx))
	got, _ = c.GetFlights(ctx)
	assert.Nil(t, got)
}

func TestMemoryCache_EmptyListIsAHit(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	require.NoError(t, c.SetFlights(ctx, nil))
	got, err := c.GetFlights(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRedisCache_KeyUsesPrefix(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "localhost:0"}, "skyportal:", time.Minute)
	defer c.Close()
	assert.Equal(t, "skyportal:cache:flights", c.flightsKey())
}

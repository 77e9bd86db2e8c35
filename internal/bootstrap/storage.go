package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/config"
	"github.com/Jigar634859/skyportal/internal/storage"
)

// OpenStore connects the key-value store named by cfg.Storage.Driver. The
// returned cleanup releases everything the store holds.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		s := storage.NewMemoryStore()
		return s, func() { _ = s.Close() }, nil

	case config.StorageFile:
		s, err := storage.NewFileStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open state file: %w", err)
		}
		logger.Info("using file storage", zap.String("path", cfg.Storage.Path))
		return s, func() { _ = s.Close() }, nil

	case config.StorageRedis:
		s := storage.NewRedisStore(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Storage.KeyPrefix)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("using redis storage", zap.String("addr", cfg.Redis.Addr))
		return s, func() { _ = s.Close() }, nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		s := storage.NewPostgresStore(pool)
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("using postgres storage", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.Name))
		return s, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const maxUpdateAttempts = 16

type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(opts *redis.Options, prefix string) *RedisStore {
	return &RedisStore{client: redis.NewClient(opts), prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoValue
		}
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) GetMany(ctx context.Context, keys ...string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}
	vals, err := s.client.MGet(ctx, s.keys(keys)...).Result()
	if err != nil {
		return nil, err
	}
	return collect(keys, vals), nil
}

// SetMany wraps the writes in MULTI/EXEC.
func (s *RedisStore) SetMany(ctx context.Context, values map[string][]byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	return err
}

// Update watches keys, runs fn over their values and commits the result in
// MULTI/EXEC. A commit that lost a race to another writer is retried.
func (s *RedisStore) Update(ctx context.Context, keys []string, fn UpdateFunc) error {
	full := s.keys(keys)
	txf := func(tx *redis.Tx) error {
		current := map[string][]byte{}
		if len(full) > 0 {
			vals, err := tx.MGet(ctx, full...).Result()
			if err != nil {
				return err
			}
			current = collect(keys, vals)
		}
		next, err := fn(current)
		if err != nil || len(next) == 0 {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for k, v := range next {
				pipe.Set(ctx, s.key(k), v, 0)
			}
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		err := s.client.Watch(ctx, txf, full...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return ErrConflict
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, s.keys(keys)...).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) keys(keys []string) []string {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.key(k))
	}
	return full
}

func collect(keys []string, vals []any) map[string][]byte {
	out := make(map[string][]byte, len(keys))
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[keys[i]] = []byte(str)
		}
	}
	return out
}

var _ Store = (*RedisStore)(nil)

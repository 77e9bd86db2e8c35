// Package storage is a small durable key-value layer. Keys are stable logical
// names and values are JSON documents; SetMany writes all of its keys or none
// of them, and Update reads and writes as one step across processes.
package storage

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNoValue = errors.New("storage: no value for key")
	// ErrConflict is returned when an Update kept racing other writers.
	ErrConflict = errors.New("storage: concurrent update conflict")
)

// UpdateFunc receives the current values of the watched keys (absent keys are
// missing from the map) and returns the values to write. It may run more than
// once and must not keep side effects from a discarded attempt.
type UpdateFunc func(current map[string][]byte) (map[string][]byte, error)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// GetMany returns the present keys only.
	GetMany(ctx context.Context, keys ...string) (map[string][]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
	// Update runs fn over the current values of keys and writes its result
	// atomically; no other writer can change keys in between.
	Update(ctx context.Context, keys []string, fn UpdateFunc) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNoValue
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) GetMany(_ context.Context, keys ...string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pick(keys), nil
}

func (s *MemoryStore) SetMany(_ context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(values)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, keys []string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.pick(keys))
	if err != nil {
		return err
	}
	s.put(next)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) pick(keys []string) map[string][]byte {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out
}

func (s *MemoryStore) put(values map[string][]byte) {
	for k, v := range values {
		s.values[k] = append([]byte(nil), v...)
	}
}

var _ Store = (*MemoryStore)(nil)

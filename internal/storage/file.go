package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every key in one JSON document. Each operation takes an
// advisory lock on a sidecar file and re-reads the document, so several
// processes can share one path. Writes go to a temp file that is renamed over
// the document, so a crash leaves the previous state.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	err := s.locked(false, func() error {
		_, err := s.read()
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	values, err := s.GetMany(ctx, key)
	if err != nil {
		return nil, err
	}
	v, ok := values[key]
	if !ok {
		return nil, ErrNoValue
	}
	return v, nil
}

func (s *FileStore) GetMany(_ context.Context, keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	err := s.locked(false, func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		for _, k := range keys {
			if v, ok := doc[k]; ok {
				out[k] = append([]byte(nil), v...)
			}
		}
		return nil
	})
	return out, err
}

func (s *FileStore) SetMany(ctx context.Context, values map[string][]byte) error {
	return s.Update(ctx, nil, func(map[string][]byte) (map[string][]byte, error) {
		return values, nil
	})
}

func (s *FileStore) Update(_ context.Context, keys []string, fn UpdateFunc) error {
	return s.locked(true, func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		current := make(map[string][]byte, len(keys))
		for _, k := range keys {
			if v, ok := doc[k]; ok {
				current[k] = append([]byte(nil), v...)
			}
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if len(next) == 0 {
			return nil
		}
		for k, v := range next {
			if !json.Valid(v) {
				return fmt.Errorf("value for %q is not a JSON document", k)
			}
			doc[k] = append(json.RawMessage(nil), v...)
		}
		return s.flush(doc)
	})
}

func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	return s.locked(true, func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		for _, k := range keys {
			delete(doc, k)
		}
		return s.flush(doc)
	})
}

func (s *FileStore) Close() error { return nil }

// locked runs fn holding the in-process mutex and the lock file.
func (s *FileStore) locked(exclusive bool, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open state lock: %w", err)
	}
	defer f.Close()
	if err := lockFile(f, exclusive); err != nil {
		return fmt.Errorf("lock state file: %w", err)
	}
	defer unlockFile(f)
	return fn()
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return doc, nil
	case err != nil:
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) flush(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".skyportal-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoValue)

	require.NoError(t, s.SetMany(ctx, map[string][]byte{"a": []byte(`1`), "b": []byte(`"two"`)}))
	v, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, `"two"`, string(v))

	// returned slices are copies
	v[0] = 'x'
	again, _ := s.Get(ctx, "b")
	assert.Equal(t, `"two"`, string(again))

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNoValue)
}

func TestMemoryStore_UpdateReadsAndWritesTogether(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.SetMany(ctx, map[string][]byte{"n": []byte(`1`)}))

	err := s.Update(ctx, []string{"n", "missing"}, func(cur map[string][]byte) (map[string][]byte, error) {
		assert.Equal(t, `1`, string(cur["n"]))
		assert.NotContains(t, cur, "missing")
		return map[string][]byte{"n": []byte(`2`)}, nil
	})
	require.NoError(t, err)
	v, _ := s.Get(ctx, "n")
	assert.Equal(t, `2`, string(v))

	boom := errors.New("boom")
	err = s.Update(ctx, []string{"n"}, func(map[string][]byte) (map[string][]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	many, err := s.GetMany(ctx, "n", "missing")
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"n": []byte(`2`)}, many)
}

func TestFileStore_SharedPathSeesOtherWriters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	a, err := NewFileStore(path)
	require.NoError(t, err)
	b, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, a.SetMany(ctx, map[string][]byte{"catalog": []byte(`[1]`)}))
	require.NoError(t, b.SetMany(ctx, map[string][]byte{"adminToken": []byte(`"t"`)}))
	require.NoError(t, a.SetMany(ctx, map[string][]byte{"catalog": []byte(`[1,2]`)}))

	v, err := a.Get(ctx, "adminToken")
	require.NoError(t, err)
	assert.Equal(t, `"t"`, string(v))
	v, err = b.Get(ctx, "catalog")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(v))
}

func TestFileStore_ConcurrentCounterUpdates(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	stores := make([]*FileStore, 3)
	for i := range stores {
		s, err := NewFileStore(path)
		require.NoError(t, err)
		stores[i] = s
	}

	const perStore = 20
	var wg sync.WaitGroup
	for _, s := range stores {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perStore {
				err := s.Update(ctx, []string{"n"}, func(cur map[string][]byte) (map[string][]byte, error) {
					n := 0
					if raw, ok := cur["n"]; ok {
						if err := json.Unmarshal(raw, &n); err != nil {
							return nil, err
						}
					}
					return map[string][]byte{"n": []byte(strconv.Itoa(n + 1))}, nil
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	v, err := stores[0].Get(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(len(stores)*perStore), string(v))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SetMany(ctx, map[string][]byte{
		"skyportal.flights": []byte(`[{"id":1}]`),
		"skyportal.nextId":  []byte(`2`),
	}))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, err := reopened.Get(ctx, "skyportal.nextId")
	require.NoError(t, err)
	assert.Equal(t, `2`, string(v))

	require.NoError(t, reopened.Delete(ctx, "skyportal.nextId"))
	third, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = third.Get(ctx, "skyportal.nextId")
	assert.ErrorIs(t, err, ErrNoValue)
}

func TestFileStore_RejectsNonJSON(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	err = s.SetMany(ctx, map[string][]byte{"good": []byte(`1`), "bad": []byte(`not json`)})
	assert.Error(t, err)

	// nothing from the failed batch is visible
	_, err = s.Get(ctx, "good")
	assert.ErrorIs(t, err, ErrNoValue)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestNewRedisStore(t *testing.T) {
	s := NewRedisStore(&redis.Options{Addr: "localhost:6379"}, "skyportal:")
	assert.NotNil(t, s)
	assert.Equal(t, "skyportal:skyportal.flights", s.key("skyportal.flights"))
	assert.NoError(t, s.Close())
}

func TestNewPostgresStore(t *testing.T) {
	pool := &pgxpool.Pool{}
	s := NewPostgresStore(pool)
	assert.NotNil(t, s)
	assert.NoError(t, s.Close())
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createKVTable = `CREATE TABLE IF NOT EXISTS skyportal_kv (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// updateLockID keys the transaction-scoped advisory lock taken by Update.
const updateLockID int64 = 0x736b79

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the key-value table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createKVTable); err != nil {
		return fmt.Errorf("create skyportal_kv: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, `SELECT value FROM skyportal_kv WHERE key=$1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoValue
		}
		return nil, err
	}
	return value, nil
}

func (s *PostgresStore) GetMany(ctx context.Context, keys ...string) (map[string][]byte, error) {
	return selectMany(ctx, s.db, keys)
}

func (s *PostgresStore) SetMany(ctx context.Context, values map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := upsert(ctx, tx, values); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update serializes writers with an advisory lock held until commit, then
// reads, applies fn and upserts inside the same transaction.
func (s *PostgresStore) Update(ctx context.Context, keys []string, fn UpdateFunc) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, updateLockID); err != nil {
		return fmt.Errorf("lock skyportal_kv: %w", err)
	}
	current, err := selectMany(ctx, tx, keys)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if err := upsert(ctx, tx, next); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, `DELETE FROM skyportal_kv WHERE key = ANY($1)`, keys)
	return err
}

// Close is a no-op; the pool belongs to the caller.
func (s *PostgresStore) Close() error { return nil }

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func selectMany(ctx context.Context, q querier, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `SELECT key, value FROM skyportal_kv WHERE key = ANY($1)`, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, rows.Err()
}

func upsert(ctx context.Context, tx pgx.Tx, values map[string][]byte) error {
	for k, v := range values {
		if _, err := tx.Exec(ctx, `INSERT INTO skyportal_kv (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, k, v); err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)

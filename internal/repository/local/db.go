// Package local is the self-contained backend. It keeps flights, bookings and
// their id counters under fixed keys of a storage.Store and reproduces the
// server semantics the remote backend is expected to have. Nothing is cached:
// several processes may share one store.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/storage"
)

const (
	KeyFlights       = "skyportal.flights"
	KeyNextFlightID  = "skyportal.nextId"
	KeyBookings      = "skyportal.bookings"
	KeyNextBookingID = "skyportal.nextBookingId"
	KeyUsers         = "skyportal.users"
	KeyNextUserID    = "skyportal.nextUserId"
)

type state struct {
	// seeded reports whether the catalog key has ever been written.
	seeded        bool
	flights       []domain.Flight
	nextFlightID  int64
	bookings      []domain.Booking
	nextBookingID int64
	users         []domain.UserAccount
	nextUserID    int64
}

var stateKeys = []string{KeyFlights, KeyNextFlightID, KeyBookings, KeyNextBookingID, KeyUsers, KeyNextUserID}

// DB reads the persisted collections on every call and applies mutations as
// one read-modify-write against the store.
type DB struct {
	mu     sync.Mutex
	kv     storage.Store
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*dbOptions)

type dbOptions struct {
	seed   func(now time.Time) []domain.Flight
	now    func() time.Time
	logger *zap.Logger
}

// WithSeed replaces the starter flights written on first run.
func WithSeed(flights []domain.Flight) Option {
	return func(o *dbOptions) {
		o.seed = func(time.Time) []domain.Flight { return flights }
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *dbOptions) { o.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *dbOptions) { o.logger = logger }
}

// Open checks that the stored collections decode and seeds the catalog when
// it has never been written.
func Open(ctx context.Context, kv storage.Store, opts ...Option) (*DB, error) {
	o := dbOptions{seed: DefaultSeed, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	db := &DB{kv: kv, now: o.now, logger: o.logger}

	var seededNow int
	err := db.update(ctx, func(st *state) ([]string, error) {
		seededNow = 0
		if st.seeded {
			return nil, nil
		}
		flights := o.seed(o.now())
		st.flights = append([]domain.Flight(nil), flights...)
		for _, f := range flights {
			st.nextFlightID = max(st.nextFlightID, f.ID+1)
		}
		seededNow = len(flights)
		return []string{KeyFlights, KeyNextFlightID}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("open local state: %w", err)
	}
	if seededNow > 0 {
		db.logger.Info("seeded flight catalog", zap.Int("flights", seededNow))
	}
	return db, nil
}

// update applies fn to the current stored state and persists the keys fn
// reports as changed in the same atomic store update. fn may run again when
// the store retries after a conflicting writer.
func (db *DB) update(ctx context.Context, fn func(st *state) ([]string, error)) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var fnErr error
	err := db.kv.Update(ctx, stateKeys, func(current map[string][]byte) (map[string][]byte, error) {
		fnErr = nil
		st, err := decodeState(current)
		if err != nil {
			fnErr = err
			return nil, err
		}
		changed, err := fn(&st)
		if err != nil {
			fnErr = err
			return nil, err
		}
		values := make(map[string][]byte, len(changed))
		for _, key := range changed {
			raw, err := json.Marshal(st.field(key))
			if err != nil {
				fnErr = fmt.Errorf("encode %s: %w", key, err)
				return nil, fnErr
			}
			values[key] = raw
		}
		return values, nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		db.logger.Error("persist state", zap.Error(err))
		return domain.Unavailable("persist state", err)
	}
	return nil
}

// view reads a consistent snapshot of the stored state.
func (db *DB) view(ctx context.Context, fn func(st *state)) error {
	current, err := db.kv.GetMany(ctx, stateKeys...)
	if err != nil {
		return domain.Unavailable("read state", err)
	}
	st, err := decodeState(current)
	if err != nil {
		return err
	}
	fn(&st)
	return nil
}

func decodeState(values map[string][]byte) (state, error) {
	var st state
	targets := map[string]any{
		KeyFlights:       &st.flights,
		KeyNextFlightID:  &st.nextFlightID,
		KeyBookings:      &st.bookings,
		KeyNextBookingID: &st.nextBookingID,
		KeyUsers:         &st.users,
		KeyNextUserID:    &st.nextUserID,
	}
	for key, dst := range targets {
		raw, ok := values[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return state{}, fmt.Errorf("decode %s: %w", key, err)
		}
	}
	_, st.seeded = values[KeyFlights]

	// A missing or stale counter must never hand out an id already in use.
	if st.nextFlightID == 0 {
		st.nextFlightID = int64(len(st.flights)) + 1
	}
	for _, f := range st.flights {
		st.nextFlightID = max(st.nextFlightID, f.ID+1)
	}
	st.nextBookingID = max(st.nextBookingID, 1)
	for _, b := range st.bookings {
		st.nextBookingID = max(st.nextBookingID, b.ID+1)
	}
	st.nextUserID = max(st.nextUserID, 1)
	for _, u := range st.users {
		st.nextUserID = max(st.nextUserID, u.ID+1)
	}
	return st, nil
}

func (st *state) field(key string) any {
	switch key {
	case KeyFlights:
		return st.flights
	case KeyNextFlightID:
		return st.nextFlightID
	case KeyBookings:
		return st.bookings
	case KeyNextBookingID:
		return st.nextBookingID
	case KeyUsers:
		return st.users
	case KeyNextUserID:
		return st.nextUserID
	}
	panic("local: unknown state key " + key)
}

func (st *state) flightIndex(id int64) int {
	for i, f := range st.flights {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (st *state) bookingIndex(id int64) int {
	for i, b := range st.bookings {
		if b.ID == id {
			return i
		}
	}
	return -1
}

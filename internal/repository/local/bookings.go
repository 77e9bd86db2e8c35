package local

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/repository"
	"github.com/Jigar634859/skyportal/internal/session"
)

// BookingRepository stores bookings next to the catalog they reference.
//
// In demo mode every caller sees every booking. Otherwise bookings are
// partitioned by the owning user id.
type BookingRepository struct {
	db       *DB
	sessions *session.Store
	demo     bool
}

func NewBookingRepository(db *DB, sessions *session.Store, demo bool) *BookingRepository {
	return &BookingRepository{db: db, sessions: sessions, demo: demo}
}

func (r *BookingRepository) Create(ctx context.Context, input domain.BookingInput, payment domain.Payment) (*domain.Booking, error) {
	var owner int64
	if user, ok := r.sessions.Caller(ctx); ok {
		owner = user.ID
	} else if !r.demo {
		return nil, fmt.Errorf("create booking: %w", domain.ErrInvalidCredentials)
	}

	var created domain.Booking
	var flight domain.Flight
	err := r.db.update(ctx, func(st *state) ([]string, error) {
		i := st.flightIndex(input.FlightID)
		if i < 0 {
			return nil, domain.FlightNotFound(input.FlightID)
		}
		flight = st.flights[i]
		id := st.nextBookingID
		created = domain.NewBooking(id, owner, input, flight.Price, payment, domain.NewDateTime(r.db.now()))
		st.bookings = append(st.bookings, created)
		st.nextBookingID = id + 1
		return []string{KeyBookings, KeyNextBookingID}, nil
	})
	if err != nil {
		return nil, err
	}
	r.db.logger.Info("booking created",
		zap.Int64("booking_id", created.ID),
		zap.Int64("flight_id", created.FlightID),
		zap.Float64("total_price", created.TotalPrice))
	created.Flight = flight.Summary()
	return &created, nil
}

func (r *BookingRepository) ListMine(ctx context.Context) ([]domain.Booking, error) {
	owner, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	bookings := make([]domain.Booking, 0)
	err = r.db.view(ctx, func(st *state) {
		for _, b := range st.bookings {
			if owner != nil && b.UserID != *owner {
				continue
			}
			bookings = append(bookings, st.enrich(b))
		}
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	owner, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	var found *domain.Booking
	err = r.db.view(ctx, func(st *state) {
		if i := st.bookingIndex(id); i >= 0 && owns(owner, st.bookings[i]) {
			b := st.enrich(st.bookings[i])
			found = &b
		}
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.BookingNotFound(id)
	}
	return found, nil
}

func (r *BookingRepository) Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	owner, err := r.owner(ctx)
	if err != nil {
		return nil, err
	}
	var updated domain.Booking
	err = r.db.update(ctx, func(st *state) ([]string, error) {
		i := st.bookingIndex(id)
		if i < 0 || !owns(owner, st.bookings[i]) {
			return nil, domain.BookingNotFound(id)
		}
		st.bookings[i] = patch.Apply(st.bookings[i])
		updated = st.enrich(st.bookings[i])
		return []string{KeyBookings}, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// owner is the user id bookings are restricted to, or nil in demo mode.
func (r *BookingRepository) owner(ctx context.Context) (*int64, error) {
	if r.demo {
		return nil, nil
	}
	user, ok := r.sessions.Caller(ctx)
	if !ok {
		return nil, fmt.Errorf("no signed-in user: %w", domain.ErrInvalidCredentials)
	}
	return &user.ID, nil
}

func owns(owner *int64, b domain.Booking) bool {
	return owner == nil || b.UserID == *owner
}

// enrich attaches the referenced flight; a deleted flight leaves it empty.
func (st *state) enrich(b domain.Booking) domain.Booking {
	b.Flight = nil
	if i := st.flightIndex(b.FlightID); i >= 0 {
		b.Flight = st.flights[i].Summary()
	}
	return b
}

var _ repository.BookingRepository = (*BookingRepository)(nil)

package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/repository"
	"github.com/Jigar634859/skyportal/internal/wire"
)

type BookingRepository struct {
	c *Client
}

func NewBookingRepository(c *Client) *BookingRepository {
	return &BookingRepository{c: c}
}

func (r *BookingRepository) Create(ctx context.Context, input domain.BookingInput, payment domain.Payment) (*domain.Booking, error) {
	var b domain.Booking
	body := wire.CreateBookingRequest{BookingInput: input, Payment: payment}
	if err := r.c.do(ctx, http.MethodPost, wire.PathBookings, nil, body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) ListMine(ctx context.Context) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	if err := r.c.do(ctx, http.MethodGet, wire.PathMyBookings, nil, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.c.do(ctx, http.MethodGet, bookingPath(id), nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.c.do(ctx, http.MethodPatch, bookingPath(id), nil, patch, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func bookingPath(id int64) string {
	return fmt.Sprintf("%s/%d", wire.PathBookings, id)
}

var _ repository.BookingRepository = (*BookingRepository)(nil)

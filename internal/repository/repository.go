// Package repository declares the data-access contracts shared by the local
// and remote backends. Callers never know which implementation is active.
package repository

import (
	"context"

	"github.com/Jigar634859/skyportal/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input domain.FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, patch domain.FlightPatch) (*domain.Flight, error)
	// Delete of an absent id is a no-op.
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.Flight, error)
}

type BookingRepository interface {
	Create(ctx context.Context, input domain.BookingInput, payment domain.Payment) (*domain.Booking, error)
	ListMine(ctx context.Context) ([]domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error)
}

type AuthRepository interface {
	AdminLogin(ctx context.Context, username, password string) (string, error)
	UserLogin(ctx context.Context, email, password string) (*domain.AuthResult, error)
	UserRegister(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error)
}

package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/repository"
	"github.com/Jigar634859/skyportal/internal/wire"
)

type FlightRepository struct {
	c *Client
}

func NewFlightRepository(c *Client) *FlightRepository {
	return &FlightRepository{c: c}
}

func (r *FlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	if err := r.c.do(ctx, http.MethodGet, wire.PathFlights, nil, nil, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (r *FlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	var f domain.Flight
	if err := r.c.do(ctx, http.MethodGet, flightPath(id), nil, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FlightRepository) Create(ctx context.Context, input domain.FlightInput) (*domain.Flight, error) {
	var f domain.Flight
	if err := r.c.do(ctx, http.MethodPost, wire.PathFlights, nil, input, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FlightRepository) Update(ctx context.Context, id int64, patch domain.FlightPatch) (*domain.Flight, error) {
	var f domain.Flight
	if err := r.c.do(ctx, http.MethodPut, flightPath(id), nil, patch, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Delete treats a server-side 404 as success, matching the local backend.
func (r *FlightRepository) Delete(ctx context.Context, id int64) error {
	err := r.c.do(ctx, http.MethodDelete, flightPath(id), nil, nil, nil)
	if isNotFound(err) {
		return nil
	}
	return err
}

func (r *FlightRepository) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Flight, error) {
	q := url.Values{}
	q.Set(wire.QueryFrom, query.From)
	q.Set(wire.QueryTo, query.To)
	if query.Date != "" {
		q.Set(wire.QueryDate, query.Date)
	}
	flights := make([]domain.Flight, 0)
	if err := r.c.do(ctx, http.MethodGet, wire.PathFlightSearch, q, nil, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func flightPath(id int64) string {
	return fmt.Sprintf("%s/%d", wire.PathFlights, id)
}

var _ repository.FlightRepository = (*FlightRepository)(nil)

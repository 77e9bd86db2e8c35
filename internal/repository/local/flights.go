package local

import (
	"context"

	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/repository"
)

type FlightRepository struct {
	db *DB
}

func NewFlightRepository(db *DB) *FlightRepository {
	return &FlightRepository{db: db}
}

func (r *FlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	var flights []domain.Flight
	err := r.db.view(ctx, func(st *state) {
		flights = append(make([]domain.Flight, 0, len(st.flights)), st.flights...)
	})
	if err != nil {
		return nil, err
	}
	return flights, nil
}

func (r *FlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	var found *domain.Flight
	err := r.db.view(ctx, func(st *state) {
		if i := st.flightIndex(id); i >= 0 {
			f := st.flights[i]
			found = &f
		}
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.FlightNotFound(id)
	}
	return found, nil
}

func (r *FlightRepository) Create(ctx context.Context, input domain.FlightInput) (*domain.Flight, error) {
	var created domain.Flight
	err := r.db.update(ctx, func(st *state) ([]string, error) {
		id := st.nextFlightID
		created = domain.NewFlight(id, input)
		st.flights = append(st.flights, created)
		st.nextFlightID = id + 1
		return []string{KeyFlights, KeyNextFlightID}, nil
	})
	if err != nil {
		return nil, err
	}
	r.db.logger.Info("flight created", zap.Int64("flight_id", created.ID), zap.String("code", created.Code))
	return &created, nil
}

func (r *FlightRepository) Update(ctx context.Context, id int64, patch domain.FlightPatch) (*domain.Flight, error) {
	var updated domain.Flight
	err := r.db.update(ctx, func(st *state) ([]string, error) {
		i := st.flightIndex(id)
		if i < 0 {
			return nil, domain.FlightNotFound(id)
		}
		updated = patch.Apply(st.flights[i])
		if err := updated.Validate(); err != nil {
			return nil, err
		}
		st.flights[i] = updated
		return []string{KeyFlights}, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *FlightRepository) Delete(ctx context.Context, id int64) error {
	return r.db.update(ctx, func(st *state) ([]string, error) {
		i := st.flightIndex(id)
		if i < 0 {
			return nil, nil
		}
		st.flights = append(st.flights[:i], st.flights[i+1:]...)
		return []string{KeyFlights}, nil
	})
}

func (r *FlightRepository) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Flight, error) {
	results := make([]domain.Flight, 0)
	err := r.db.view(ctx, func(st *state) {
		for _, f := range st.flights {
			if !f.MatchesRoute(query.From, query.To) {
				continue
			}
			if query.Date != "" && !f.DepartsOn(query.Date) {
				continue
			}
			results = append(results, f)
		}
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

var _ repository.FlightRepository = (*FlightRepository)(nil)

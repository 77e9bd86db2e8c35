package flights

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input domain.FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, patch domain.FlightPatch) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.Flight, error)
}

// FlightCache holds the public flight list. GetFlights returns nil on a miss.
type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo   repository.FlightRepository
	cache  FlightCache
	logger *zap.Logger
}

type Option func(*FlightService)

func WithLogger(logger *zap.Logger) Option {
	return func(s *FlightService) { s.logger = logger }
}

// NewFlightService wires the catalog. cache may be nil.
func NewFlightService(repo repository.FlightRepository, cache FlightCache, opts ...Option) *FlightService {
	s := &FlightService{repo: repo, cache: cache, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.logger.Warn("flight cache read failed", zap.Error(err))
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.logger.Warn("flight cache write failed", zap.Error(err))
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, input domain.FlightInput) (*domain.Flight, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *FlightService) Update(ctx context.Context, id int64, patch domain.FlightPatch) (*domain.Flight, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Flight, error) {
	query.From = strings.TrimSpace(query.From)
	query.To = strings.TrimSpace(query.To)
	query.Date = strings.TrimSpace(query.Date)
	if query.From == "" || query.To == "" {
		return nil, domain.Invalid("from and to are required")
	}
	if query.Date != "" && !domain.ValidDate(query.Date) {
		return nil, domain.Invalid("date must be %s, got %q", domain.DateLayout, query.Date)
	}
	return s.repo.Search(ctx, query)
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.logger.Warn("flight cache invalidation failed", zap.Error(err))
	}
}

var _ FlightUseCase = (*FlightService)(nil)

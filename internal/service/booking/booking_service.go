package booking

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/kafka"
	"github.com/Jigar634859/skyportal/internal/payment"
	"github.com/Jigar634859/skyportal/internal/repository"
)

type BookingUseCase interface {
	Create(ctx context.Context, input domain.BookingInput, confirmation *payment.Confirmation) (*domain.Booking, error)
	ListMine(ctx context.Context) ([]domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error)
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	publishAttempts    int
	now                func() time.Time
	logger             *zap.Logger
}

type BookingServiceOption func(*BookingService)

// WithEvents publishes booking events to topic through producer.
func WithEvents(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithPublishAttempts bounds how many times each event write is tried.
func WithPublishAttempts(n int) BookingServiceOption {
	return func(s *BookingService) {
		s.publishAttempts = n
	}
}

func WithLogger(logger *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func NewBookingService(bookings repository.BookingRepository, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings:        bookings,
		publishAttempts: kafka.DefaultPublishAttempts,
		now:             time.Now,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create stores a booking for a paid confirmation. Without one nothing is
// written.
func (s *BookingService) Create(ctx context.Context, input domain.BookingInput, confirmation *payment.Confirmation) (*domain.Booking, error) {
	if !confirmation.Paid() {
		return nil, fmt.Errorf("create booking for flight %d: %w", input.FlightID, domain.ErrPaymentRequired)
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.bookings.Create(ctx, input, confirmation.ToPayment())
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, kafka.EventBookingCreated, created); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("type", kafka.EventBookingCreated),
			zap.Int64("booking_id", created.ID),
			zap.Error(err))
	}
	return created, nil
}

func (s *BookingService) ListMine(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListMine(ctx)
}

func (s *BookingService) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.bookings.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, kafka.EventBookingUpdated, updated); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("type", kafka.EventBookingUpdated),
			zap.Int64("booking_id", updated.ID),
			zap.Error(err))
	}
	return updated, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.NewBookingEvent(eventType, booking, s.now())
	key := strconv.FormatInt(booking.ID, 10)
	if err := s.producer.PublishWithRetry(ctx, s.bookingTopic, key, event, s.publishAttempts); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.PublishWithRetry(ctx, s.notificationsTopic, key, event, s.publishAttempts)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)

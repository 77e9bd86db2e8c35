package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/internal/domain"
)

const (
	EventBookingCreated = "booking_created"
	EventBookingUpdated = "booking_updated"
)

type BookingEvent struct {
	Type               string    `json:"type"`
	BookingID          int64     `json:"booking_id"`
	FlightID           int64     `json:"flight_id"`
	FlightCode         string    `json:"flight_code,omitempty"`
	UserID             int64     `json:"user_id,omitempty"`
	PassengerName      string    `json:"passenger_name"`
	PassengerEmail     string    `json:"passenger_email"`
	NumberOfPassengers int       `json:"number_of_passengers"`
	SeatPreference     string    `json:"seat_preference"`
	TotalPrice         float64   `json:"total_price"`
	PaymentReference   string    `json:"payment_reference,omitempty"`
	Status             string    `json:"status"`
	OccurredAt         time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *domain.Booking, at time.Time) BookingEvent {
	event := BookingEvent{
		Type:               eventType,
		BookingID:          b.ID,
		FlightID:           b.FlightID,
		UserID:             b.UserID,
		PassengerName:      b.PassengerName,
		PassengerEmail:     b.PassengerEmail,
		NumberOfPassengers: b.NumberOfPassengers,
		SeatPreference:     string(b.SeatPreference),
		TotalPrice:         b.TotalPrice,
		PaymentReference:   b.PaymentReference,
		Status:             string(b.Status),
		OccurredAt:         at.UTC(),
	}
	if b.Flight != nil {
		event.FlightCode = b.Flight.Code
	}
	return event
}

// DefaultPublishAttempts is used when a caller asks for fewer than one attempt.
const DefaultPublishAttempts = 3

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	brokers []string
	writer  messageWriter
	backoff time.Duration
	logger  *zap.Logger
}

func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
		backoff: 500 * time.Millisecond,
		logger:  logger,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.logger.Debug("published event", zap.String("topic", topic), zap.String("key", key))
	return nil
}

// PublishWithRetry makes up to maxRetries attempts, backing off linearly
// between them.
func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error {
	if maxRetries < 1 {
		maxRetries = DefaultPublishAttempts
	}
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := p.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}
		lastErr = err
		p.logger.Warn("publish attempt failed", zap.Int("attempt", i+1), zap.String("topic", topic), zap.Error(err))

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * p.backoff):
			}
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and lists its partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}
	p.logger.Info("connected to kafka", zap.Int("partitions", len(partitions)))
	return nil
}

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/internal/domain"
)

func TestNewBookingEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 19800))
	b := &domain.Booking{
		ID:                 7,
		FlightID:           1,
		UserID:             3,
		PassengerName:      "Asha",
		PassengerEmail:     "asha@example.com",
		NumberOfPassengers: 2,
		SeatPreference:     domain.SeatClassBusiness,
		TotalPrice:         13000,
		PaymentReference:   "demo_1",
		Status:             domain.BookingStatusConfirmed,
		Flight:             &domain.FlightSummary{ID: 1, Code: "AI-101"},
	}

	event := NewBookingEvent(EventBookingCreated, b, at)
	assert.Equal(t, EventBookingCreated, event.Type)
	assert.Equal(t, int64(7), event.BookingID)
	assert.Equal(t, "AI-101", event.FlightCode)
	assert.Equal(t, "Business", event.SeatPreference)
	assert.Equal(t, "Confirmed", event.Status)
	assert.Equal(t, time.UTC, event.OccurredAt.Location())
}

func TestDecodeEvents(t *testing.T) {
	var got []BookingEvent
	handle := DecodeEvents(zap.NewNop(), func(_ context.Context, e BookingEvent) error {
		got = append(got, e)
		return nil
	})

	raw, err := json.Marshal(BookingEvent{Type: EventBookingUpdated, BookingID: 2})
	require.NoError(t, err)

	require.NoError(t, handle(context.Background(), kafka.Message{Value: []byte("not json")}))
	require.NoError(t, handle(context.Background(), kafka.Message{Value: raw}))
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].BookingID)
}

func TestDecodeEvents_HandlerErrorStops(t *testing.T) {
	boom := errors.New("boom")
	handle := DecodeEvents(zap.NewNop(), func(context.Context, BookingEvent) error { return boom })

	raw, err := json.Marshal(BookingEvent{Type: EventBookingCreated})
	require.NoError(t, err)
	assert.ErrorIs(t, handle(context.Background(), kafka.Message{Value: raw}), boom)
}

func TestProducer_CheckConnectionWithoutBrokers(t *testing.T) {
	p := NewProducer(nil, nil)
	defer p.Close()
	assert.Error(t, p.CheckConnection(context.Background()))
}

type fakeWriter struct {
	failures int
	calls    int
	written  []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.calls++
	if w.calls <= w.failures {
		return errors.New("leader not available")
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func newTestProducer(w *fakeWriter) *Producer {
	return &Producer{writer: w, backoff: time.Millisecond, logger: zap.NewNop()}
}

func TestProducer_PublishWithRetry_RecoversAfterFailures(t *testing.T) {
	w := &fakeWriter{failures: 2}
	p := newTestProducer(w)

	err := p.PublishWithRetry(context.Background(), "booking-events", "7", BookingEvent{BookingID: 7}, 3)

	require.NoError(t, err)
	assert.Equal(t, 3, w.calls)
	require.Len(t, w.written, 1)
	assert.Equal(t, "booking-events", w.written[0].Topic)
	assert.Equal(t, "7", string(w.written[0].Key))
}

func TestProducer_PublishWithRetry_GivesUp(t *testing.T) {
	w := &fakeWriter{failures: 10}
	p := newTestProducer(w)

	err := p.PublishWithRetry(context.Background(), "booking-events", "7", BookingEvent{}, 2)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
	assert.Equal(t, 2, w.calls)
}

func TestProducer_PublishWithRetry_DefaultsAttempts(t *testing.T) {
	w := &fakeWriter{failures: 10}
	p := newTestProducer(w)

	require.Error(t, p.PublishWithRetry(context.Background(), "t", "k", BookingEvent{}, 0))
	assert.Equal(t, DefaultPublishAttempts, w.calls)
}

func TestProducer_PublishWithRetry_StopsOnCancel(t *testing.T) {
	w := &fakeWriter{failures: 10}
	p := newTestProducer(w)
	p.backoff = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.PublishWithRetry(ctx, "t", "k", BookingEvent{}, 3)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, w.calls)
}

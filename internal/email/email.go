package email

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/internal/kafka"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender renders booking notifications. Delivery is a log line.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, ok := Compose(event)
	if !ok {
		s.logger.Debug("no mail for event", zap.String("type", event.Type), zap.Int64("booking_id", event.BookingID))
		return nil
	}
	s.logger.Info("send email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
		zap.Int64("booking_id", event.BookingID))
	return nil
}

// Compose builds the mail for event. It reports false for events nobody
// should be mailed about.
func Compose(event kafka.BookingEvent) (Message, bool) {
	if event.PassengerEmail == "" {
		return Message{}, false
	}
	flight := event.FlightCode
	if flight == "" {
		flight = fmt.Sprintf("flight #%d", event.FlightID)
	}

	var subject string
	switch event.Type {
	case kafka.EventBookingCreated:
		subject = fmt.Sprintf("Booking #%d confirmed on %s", event.BookingID, flight)
	case kafka.EventBookingUpdated:
		subject = fmt.Sprintf("Booking #%d updated", event.BookingID)
	default:
		return Message{}, false
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", event.PassengerName)
	fmt.Fprintf(&body, "Flight: %s\n", flight)
	fmt.Fprintf(&body, "Passengers: %d (%s)\n", event.NumberOfPassengers, event.SeatPreference)
	fmt.Fprintf(&body, "Total: %.2f\n", event.TotalPrice)
	if event.PaymentReference != "" {
		fmt.Fprintf(&body, "Payment reference: %s\n", event.PaymentReference)
	}
	fmt.Fprintf(&body, "Status: %s\n", event.Status)

	return Message{To: event.PassengerEmail, Subject: subject, Body: body.String()}, true
}

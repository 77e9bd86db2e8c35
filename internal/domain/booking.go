package domain

import "strings"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

type SeatClass string

const (
	SeatClassEconomy  SeatClass = "Economy"
	SeatClassBusiness SeatClass = "Business"
	SeatClassFirst    SeatClass = "First"
)

func (c SeatClass) Valid() bool {
	switch c {
	case SeatClassEconomy, SeatClassBusiness, SeatClassFirst:
		return true
	}
	return false
}

const PaymentStatusPaid = "Paid"

type Booking struct {
	ID                 int64          `json:"id"`
	FlightID           int64          `json:"flightId"`
	UserID             int64          `json:"userId,omitempty"`
	PassengerName      string         `json:"passengerName"`
	PassengerEmail     string         `json:"passengerEmail"`
	PassengerPhone     string         `json:"passengerPhone"`
	NumberOfPassengers int            `json:"numberOfPassengers"`
	SeatPreference     SeatClass      `json:"seatPreference"`
	TotalPrice         float64        `json:"totalPrice"`
	PaymentMethod      string         `json:"paymentMethod"`
	PaymentStatus      string         `json:"paymentStatus"`
	PaidAmount         float64        `json:"paidAmount"`
	PaymentReference   string         `json:"paymentReference,omitempty"`
	BookingDate        DateTime       `json:"bookingDate"`
	Status             BookingStatus  `json:"status"`
	Flight             *FlightSummary `json:"flight,omitempty"`
}

// BookingInput is what a traveler submits before paying.
type BookingInput struct {
	FlightID           int64     `json:"flightId"`
	PassengerName      string    `json:"passengerName"`
	PassengerEmail     string    `json:"passengerEmail"`
	PassengerPhone     string    `json:"passengerPhone"`
	NumberOfPassengers int       `json:"numberOfPassengers"`
	SeatPreference     SeatClass `json:"seatPreference"`
}

// Payment is the confirmed payment metadata persisted with a booking.
type Payment struct {
	Method    string  `json:"paymentMethod"`
	Status    string  `json:"paymentStatus"`
	Amount    float64 `json:"paidAmount"`
	Reference string  `json:"paymentReference,omitempty"`
}

func (p Payment) Paid() bool {
	return p.Status == PaymentStatusPaid
}

// BookingPatch is restricted to passenger, contact and seat class fields.
type BookingPatch struct {
	PassengerName      *string    `json:"passengerName,omitempty"`
	PassengerEmail     *string    `json:"passengerEmail,omitempty"`
	PassengerPhone     *string    `json:"passengerPhone,omitempty"`
	NumberOfPassengers *int       `json:"numberOfPassengers,omitempty"`
	SeatPreference     *SeatClass `json:"seatPreference,omitempty"`
}

func (in BookingInput) Validate() error {
	switch {
	case in.FlightID <= 0:
		return Invalid("flight id is required")
	case strings.TrimSpace(in.PassengerName) == "":
		return Invalid("passenger name is required")
	case in.NumberOfPassengers < 1:
		return Invalid("number of passengers must be at least 1")
	case in.SeatPreference != "" && !in.SeatPreference.Valid():
		return Invalid("unknown seat preference %q", in.SeatPreference)
	}
	return ValidateEmail(in.PassengerEmail)
}

// NewBooking prices and stamps a confirmed booking. The fare is captured now
// and never recomputed.
func NewBooking(id, userID int64, in BookingInput, fare float64, pay Payment, at DateTime) Booking {
	seat := in.SeatPreference
	if seat == "" {
		seat = SeatClassEconomy
	}
	return Booking{
		ID:                 id,
		FlightID:           in.FlightID,
		UserID:             userID,
		PassengerName:      in.PassengerName,
		PassengerEmail:     in.PassengerEmail,
		PassengerPhone:     in.PassengerPhone,
		NumberOfPassengers: in.NumberOfPassengers,
		SeatPreference:     seat,
		TotalPrice:         fare * float64(in.NumberOfPassengers),
		PaymentMethod:      pay.Method,
		PaymentStatus:      pay.Status,
		PaidAmount:         pay.Amount,
		PaymentReference:   pay.Reference,
		BookingDate:        at,
		Status:             BookingStatusConfirmed,
	}
}

func (p BookingPatch) Validate() error {
	if p.PassengerName != nil && strings.TrimSpace(*p.PassengerName) == "" {
		return Invalid("passenger name must not be empty")
	}
	if p.PassengerEmail != nil {
		if err := ValidateEmail(*p.PassengerEmail); err != nil {
			return err
		}
	}
	if p.NumberOfPassengers != nil && *p.NumberOfPassengers < 1 {
		return Invalid("number of passengers must be at least 1")
	}
	if p.SeatPreference != nil && !p.SeatPreference.Valid() {
		return Invalid("unknown seat preference %q", *p.SeatPreference)
	}
	return nil
}

// Apply merges the patch over b. Identity, flight, date and price stay as booked.
func (p BookingPatch) Apply(b Booking) Booking {
	if p.PassengerName != nil {
		b.PassengerName = *p.PassengerName
	}
	if p.PassengerEmail != nil {
		b.PassengerEmail = *p.PassengerEmail
	}
	if p.PassengerPhone != nil {
		b.PassengerPhone = *p.PassengerPhone
	}
	if p.NumberOfPassengers != nil {
		b.NumberOfPassengers = *p.NumberOfPassengers
	}
	if p.SeatPreference != nil {
		b.SeatPreference = *p.SeatPreference
	}
	return b
}

package domain

import "strings"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "Scheduled"
	FlightStatusOnTime    FlightStatus = "On Time"
	FlightStatusDelayed   FlightStatus = "Delayed"
	FlightStatusCancelled FlightStatus = "Cancelled"
)

func (s FlightStatus) Valid() bool {
	switch s {
	case FlightStatusScheduled, FlightStatusOnTime, FlightStatusDelayed, FlightStatusCancelled:
		return true
	}
	return false
}

type Flight struct {
	ID       int64        `json:"id"`
	Code     string       `json:"code"`
	Airline  string       `json:"airline"`
	From     string       `json:"from"`
	To       string       `json:"to"`
	DepartAt DateTime     `json:"departAt"`
	ArriveAt DateTime     `json:"arriveAt"`
	Price    float64      `json:"price"`
	Status   FlightStatus `json:"status"`
}

// FlightInput is a flight draft without an id.
type FlightInput struct {
	Code     string       `json:"code"`
	Airline  string       `json:"airline"`
	From     string       `json:"from"`
	To       string       `json:"to"`
	DepartAt DateTime     `json:"departAt"`
	ArriveAt DateTime     `json:"arriveAt"`
	Price    float64      `json:"price"`
	Status   FlightStatus `json:"status"`
}

// FlightPatch carries the fields of an update; nil fields are left untouched.
type FlightPatch struct {
	Code     *string       `json:"code,omitempty"`
	Airline  *string       `json:"airline,omitempty"`
	From     *string       `json:"from,omitempty"`
	To       *string       `json:"to,omitempty"`
	DepartAt *DateTime     `json:"departAt,omitempty"`
	ArriveAt *DateTime     `json:"arriveAt,omitempty"`
	Price    *float64      `json:"price,omitempty"`
	Status   *FlightStatus `json:"status,omitempty"`
}

// FlightSummary is the flight context attached to a booking lookup.
type FlightSummary struct {
	ID       int64        `json:"id"`
	Code     string       `json:"code"`
	Airline  string       `json:"airline"`
	From     string       `json:"from"`
	To       string       `json:"to"`
	DepartAt DateTime     `json:"departAt"`
	ArriveAt DateTime     `json:"arriveAt"`
	Status   FlightStatus `json:"status"`
}

type SearchQuery struct {
	From string
	To   string
	// Date is an optional calendar date in DateLayout form.
	Date string
}

func (in FlightInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Code) == "":
		return Invalid("code is required")
	case strings.TrimSpace(in.Airline) == "":
		return Invalid("airline is required")
	case strings.TrimSpace(in.From) == "":
		return Invalid("from is required")
	case strings.TrimSpace(in.To) == "":
		return Invalid("to is required")
	case in.Price < 0:
		return Invalid("price must not be negative")
	case in.Status != "" && !in.Status.Valid():
		return Invalid("unknown flight status %q", in.Status)
	case !in.DepartAt.IsZero() && !in.ArriveAt.IsZero() && in.ArriveAt.Before(in.DepartAt.Time):
		return Invalid("arrival must not precede departure")
	}
	return nil
}

// NewFlight builds the stored record for a validated draft.
func NewFlight(id int64, in FlightInput) Flight {
	status := in.Status
	if status == "" {
		status = FlightStatusScheduled
	}
	return Flight{
		ID:       id,
		Code:     in.Code,
		Airline:  in.Airline,
		From:     in.From,
		To:       in.To,
		DepartAt: in.DepartAt,
		ArriveAt: in.ArriveAt,
		Price:    in.Price,
		Status:   status,
	}
}

func (p FlightPatch) Validate() error {
	if p.Price != nil && *p.Price < 0 {
		return Invalid("price must not be negative")
	}
	if p.Status != nil && !p.Status.Valid() {
		return Invalid("unknown flight status %q", *p.Status)
	}
	fields := []struct {
		name  string
		value *string
	}{{"code", p.Code}, {"airline", p.Airline}, {"from", p.From}, {"to", p.To}}
	for _, f := range fields {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return Invalid("%s must not be empty", f.name)
		}
	}
	return nil
}

// Apply merges the patch over f. The id is never touched.
func (p FlightPatch) Apply(f Flight) Flight {
	if p.Code != nil {
		f.Code = *p.Code
	}
	if p.Airline != nil {
		f.Airline = *p.Airline
	}
	if p.From != nil {
		f.From = *p.From
	}
	if p.To != nil {
		f.To = *p.To
	}
	if p.DepartAt != nil {
		f.DepartAt = *p.DepartAt
	}
	if p.ArriveAt != nil {
		f.ArriveAt = *p.ArriveAt
	}
	if p.Price != nil {
		f.Price = *p.Price
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	return f
}

// Validate checks a stored record, typically after a patch was merged over it.
func (f Flight) Validate() error {
	return FlightInput{
		Code:     f.Code,
		Airline:  f.Airline,
		From:     f.From,
		To:       f.To,
		DepartAt: f.DepartAt,
		ArriveAt: f.ArriveAt,
		Price:    f.Price,
		Status:   f.Status,
	}.Validate()
}

func (f Flight) Summary() *FlightSummary {
	return &FlightSummary{
		ID:       f.ID,
		Code:     f.Code,
		Airline:  f.Airline,
		From:     f.From,
		To:       f.To,
		DepartAt: f.DepartAt,
		ArriveAt: f.ArriveAt,
		Status:   f.Status,
	}
}

// MatchesRoute compares location codes case-insensitively and exactly.
func (f Flight) MatchesRoute(from, to string) bool {
	return strings.ToUpper(f.From) == strings.ToUpper(from) && strings.ToUpper(f.To) == strings.ToUpper(to)
}

// DepartsOn reports whether the departure calendar date equals date (DateLayout).
// The departure keeps the offset it was recorded with.
func (f Flight) DepartsOn(date string) bool {
	return f.DepartAt.Format(DateLayout) == date
}

package local

import (
	"time"

	"github.com/Jigar634859/skyportal/internal/domain"
)

// DefaultSeed is the starter catalog written on first run. Departures are a
// few hours after now, truncated to the minute.
func DefaultSeed(now time.Time) []domain.Flight {
	base := now.UTC().Truncate(time.Minute)
	at := func(hours float64) domain.DateTime {
		return domain.NewDateTime(base.Add(time.Duration(hours * float64(time.Hour))).Truncate(time.Minute))
	}
	return []domain.Flight{
		{ID: 1, Code: "AI-101", Airline: "Air India", From: "DEL", To: "BOM", DepartAt: at(4), ArriveAt: at(6), Price: 6500, Status: domain.FlightStatusOnTime},
		{ID: 2, Code: "6E-302", Airline: "IndiGo", From: "DEL", To: "BLR", DepartAt: at(2), ArriveAt: at(4.5), Price: 5200, Status: domain.FlightStatusScheduled},
		{ID: 3, Code: "UK-505", Airline: "Vistara", From: "DEL", To: "GOI", DepartAt: at(8), ArriveAt: at(10.2), Price: 7800, Status: domain.FlightStatusDelayed},
	}
}

package models

import (
	"fmt"
	"time"

	"github.com/noah-isme/clinic-scheduling-api/pkg/timerange"
)

// WorkingHoursRule is a recurring day-of-week window during which a provider
// is bookable at a location. Created by administrative configuration and
// read-only to the availability engine. A provider may hold several disjoint
// rules for the same weekday (split morning/afternoon shifts).
type WorkingHoursRule struct {
	ID         string    `db:"id" json:"id"`
	ProviderID string    `db:"provider_id" json:"provider_id"`
	LocationID string    `db:"location_id" json:"location_id"`
	DayOfWeek  int       `db:"day_of_week" json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	StartTime  string    `db:"start_time" json:"start_time"`   // "HH:MM", 24h
	EndTime    string    `db:"end_time" json:"end_time"`       // "HH:MM", 24h
	Room       string    `db:"room" json:"room,omitempty"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Window projects the rule onto a concrete calendar day, producing the
// absolute half-open interval in that day's location.
func (r WorkingHoursRule) Window(day time.Time) (timerange.Range, error) {
	start, err := atTimeOfDay(day, r.StartTime)
	if err != nil {
		return timerange.Range{}, fmt.Errorf("working hours rule %s start: %w", r.ID, err)
	}
	end, err := atTimeOfDay(day, r.EndTime)
	if err != nil {
		return timerange.Range{}, fmt.Errorf("working hours rule %s end: %w", r.ID, err)
	}
	return timerange.New(start, end)
}

func atTimeOfDay(day time.Time, hhmm string) (time.Time, error) {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time of day %q: %w", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}

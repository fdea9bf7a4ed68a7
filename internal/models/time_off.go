package models

import (
	"time"

	"github.com/noah-isme/clinic-scheduling-api/pkg/timerange"
)

// TimeOffPeriod marks a provider as unavailable between two absolute
// timestamps. Time off overrides working hours.
type TimeOffPeriod struct {
	ID         string    `db:"id" json:"id"`
	ProviderID string    `db:"provider_id" json:"provider_id"`
	StartTime  time.Time `db:"start_time" json:"start_time"`
	EndTime    time.Time `db:"end_time" json:"end_time"`
	AllDay     bool      `db:"all_day" json:"all_day"`
	Reason     string    `db:"reason" json:"reason,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Range returns the blocked interval. All-day periods widen to the midnight
// bounds of the days they touch.
func (p TimeOffPeriod) Range() timerange.Range {
	start, end := p.StartTime, p.EndTime
	if p.AllDay {
		start = startOfDay(start)
		end = startOfDay(end).AddDate(0, 0, 1)
	}
	return timerange.Range{Start: start, End: end}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

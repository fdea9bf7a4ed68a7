package models

import (
	"time"

	"github.com/noah-isme/clinic-scheduling-api/pkg/timerange"
)

// DateRange bounds an availability computation. Half-open: [From, To).
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Valid reports whether the range is non-empty.
func (d DateRange) Valid() bool {
	return d.From.Before(d.To)
}

// Range converts to a timerange.Range.
func (d DateRange) Range() timerange.Range {
	return timerange.Range{Start: d.From, End: d.To}
}

// Weekdays returns the set of weekdays (0=Sunday..6=Saturday) touched by the
// range, capped at a full week.
func (d DateRange) Weekdays() map[int]bool {
	days := make(map[int]bool, 7)
	for cur := startOfDay(d.From); cur.Before(d.To) && len(days) < 7; cur = cur.AddDate(0, 0, 1) {
		days[int(cur.Weekday())] = true
	}
	return days
}

// ConstraintSet bundles every constraint source for one provider/location
// over one date range. Slices are never nil; an empty set means the provider
// simply has no availability that period.
type ConstraintSet struct {
	ProviderID   string             `json:"provider_id"`
	LocationID   string             `json:"location_id"`
	WorkingHours []WorkingHoursRule `json:"working_hours"`
	TimeOff      []TimeOffPeriod    `json:"time_off"`
	Booked       []Appointment      `json:"booked"`
}

// TimeSlot is a bookable interval produced by the availability generator.
// Ephemeral: computed per request, never persisted.
type TimeSlot struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	ProviderID string    `json:"provider_id"`
	LocationID string    `json:"location_id"`
	Room       string    `json:"room,omitempty"`
}

// ConflictKind classifies why a proposed interval cannot be booked.
type ConflictKind string

const (
	ConflictNone                ConflictKind = "none"
	ConflictOutsideWorkingHours ConflictKind = "outside_working_hours"
	ConflictTimeOff             ConflictKind = "time_off"
	ConflictExistingAppointment ConflictKind = "existing_appointment"
)

// ConflictResult is the outcome of a conflict check.
type ConflictResult struct {
	HasConflict bool         `json:"has_conflict"`
	Kind        ConflictKind `json:"kind"`
	// Conflicting is the first colliding appointment (lowest start) when
	// Kind is existing_appointment.
	Conflicting *Appointment `json:"conflicting,omitempty"`
}

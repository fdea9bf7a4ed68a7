package models

import (
	"time"

	"github.com/noah-isme/clinic-scheduling-api/pkg/timerange"
)

// AppointmentStatus is the lifecycle state of a booked appointment.
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// BlockingStatuses are the states that occupy the provider's calendar for
// availability and conflict purposes.
var BlockingStatuses = []AppointmentStatus{StatusScheduled, StatusConfirmed}

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// statusTransitions enumerates the legal lifecycle moves.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Appointment is a booked interval on a provider's calendar.
type Appointment struct {
	ID         string            `db:"id" json:"id"`
	ProviderID string            `db:"provider_id" json:"provider_id"`
	LocationID string            `db:"location_id" json:"location_id"`
	PatientID  string            `db:"patient_id" json:"patient_id"`
	StartTime  time.Time         `db:"start_time" json:"start_time"`
	EndTime    time.Time         `db:"end_time" json:"end_time"`
	Status     AppointmentStatus `db:"status" json:"status"`
	Notes      string            `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

// Blocking reports whether the appointment occupies the calendar.
func (a Appointment) Blocking() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// Range returns the booked interval.
func (a Appointment) Range() timerange.Range {
	return timerange.Range{Start: a.StartTime, End: a.EndTime}
}

// Duration returns the appointment length.
func (a Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}

// AppointmentFilter describes query params for listing appointments.
type AppointmentFilter struct {
	ProviderID string
	LocationID string
	PatientID  string
	Status     AppointmentStatus
	From       time.Time
	To         time.Time
	Page       int
	PageSize   int
}

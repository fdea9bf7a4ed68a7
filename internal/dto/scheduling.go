package dto

import "time"

// AvailabilityQuery filters the availability listing for a provider.
type AvailabilityQuery struct {
	LocationID  string `form:"locationId" validate:"required"`
	From        string `form:"from" validate:"required"`        // RFC3339 or YYYY-MM-DD
	To          string `form:"to" validate:"required"`          // RFC3339 or YYYY-MM-DD
	Duration    string `form:"duration" validate:"required"`    // Go duration, e.g. "30m"
	Granularity string `form:"granularity" validate:"omitempty"` // Go duration, default from config
}

// CheckConflictRequest asks whether a proposed interval can be booked.
type CheckConflictRequest struct {
	ProviderID           string    `json:"providerId" validate:"required"`
	LocationID           string    `json:"locationId" validate:"required"`
	Start                time.Time `json:"start" validate:"required"`
	End                  time.Time `json:"end" validate:"required"`
	ExcludeAppointmentID string    `json:"excludeAppointmentId"`
}

// CreateAppointmentRequest books an interval for a patient with a provider.
type CreateAppointmentRequest struct {
	ProviderID string    `json:"providerId" validate:"required"`
	LocationID string    `json:"locationId" validate:"required"`
	PatientID  string    `json:"patientId" validate:"required"`
	Start      time.Time `json:"start" validate:"required"`
	End        time.Time `json:"end" validate:"required"`
	Notes      string    `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateAppointmentStatusRequest moves an appointment through its lifecycle.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed in_progress completed cancelled no_show"`
}

// RescheduleQuery tunes reschedule suggestions for an appointment.
type RescheduleQuery struct {
	Max         int `form:"max" validate:"omitempty,min=1,max=50"`
	HorizonDays int `form:"horizonDays" validate:"omitempty,min=1,max=90"`
}

// WorkingHoursRuleRequest is one recurring window in a rule-set replacement.
type WorkingHoursRuleRequest struct {
	DayOfWeek int    `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime string `json:"startTime" validate:"required,len=5"` // "HH:MM"
	EndTime   string `json:"endTime" validate:"required,len=5"`   // "HH:MM"
	Room      string `json:"room" validate:"omitempty,max=64"`
	Active    bool   `json:"active"`
}

// ReplaceWorkingHoursRequest swaps the full rule set for a provider/location.
// An empty rule list clears the schedule.
type ReplaceWorkingHoursRequest struct {
	Rules []WorkingHoursRuleRequest `json:"rules" validate:"dive"`
}

// CreateTimeOffRequest blocks a provider's calendar for a period.
type CreateTimeOffRequest struct {
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required"`
	AllDay bool      `json:"allDay"`
	Reason string    `json:"reason" validate:"omitempty,max=500"`
}

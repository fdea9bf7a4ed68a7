package service

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
	"github.com/noah-isme/clinic-scheduling-api/pkg/timerange"
)

// ConflictService classifies proposed intervals against a constraint set.
// Pure and side-effect-free: it never touches the data store, leaving the
// commit decision to the caller.
type ConflictService struct {
	logger  *zap.Logger
	metrics *MetricsService
}

// NewConflictService constructs the conflict checker. metrics may be nil.
func NewConflictService(logger *zap.Logger, metrics *MetricsService) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{logger: logger, metrics: metrics}
}

// Check classifies [start, end) for the provider. The checks run in a fixed
// priority order and the first match wins:
//
//  1. outside_working_hours — no single working window on start's weekday
//     fully contains the interval. An interval spanning the gap between two
//     same-day windows is outside even though each endpoint falls inside one.
//  2. time_off — the interval overlaps a time-off period.
//  3. existing_appointment — the interval overlaps a calendar-occupying
//     appointment other than excludeAppointmentID; the first collision by
//     lowest start is reported.
func (s *ConflictService) Check(constraints *models.ConstraintSet, providerID string, start, end time.Time, excludeAppointmentID string) (models.ConflictResult, error) {
	if !start.Before(end) {
		return models.ConflictResult{}, appErrors.Clone(appErrors.ErrInvalidRange, "interval start must be before end")
	}
	proposed := timerange.Range{Start: start, End: end}

	if !s.insideWorkingHours(constraints, proposed) {
		return s.result(models.ConflictResult{HasConflict: true, Kind: models.ConflictOutsideWorkingHours}), nil
	}

	for _, period := range constraints.TimeOff {
		if period.ProviderID != "" && period.ProviderID != providerID {
			continue
		}
		if timerange.Overlaps(period.Range(), proposed) {
			return s.result(models.ConflictResult{HasConflict: true, Kind: models.ConflictTimeOff}), nil
		}
	}

	if collision := firstCollision(constraints.Booked, proposed, excludeAppointmentID); collision != nil {
		return s.result(models.ConflictResult{
			HasConflict: true,
			Kind:        models.ConflictExistingAppointment,
			Conflicting: collision,
		}), nil
	}

	return s.result(models.ConflictResult{HasConflict: false, Kind: models.ConflictNone}), nil
}

func (s *ConflictService) result(r models.ConflictResult) models.ConflictResult {
	s.metrics.RecordConflictCheck(string(r.Kind))
	return r
}

// insideWorkingHours reports whether one working window on start's weekday
// fully contains the proposed interval.
func (s *ConflictService) insideWorkingHours(constraints *models.ConstraintSet, proposed timerange.Range) bool {
	weekday := int(proposed.Start.Weekday())
	for _, rule := range constraints.WorkingHours {
		if !rule.Active || rule.DayOfWeek != weekday {
			continue
		}
		window, err := rule.Window(proposed.Start)
		if err != nil {
			s.logger.Warn("skipping malformed working hours rule",
				zap.String("rule_id", rule.ID), zap.Error(err))
			continue
		}
		if window.Contains(proposed) {
			return true
		}
	}
	return false
}

// firstCollision returns the blocking appointment with the lowest start
// that overlaps the proposed interval, or nil.
func firstCollision(booked []models.Appointment, proposed timerange.Range, excludeID string) *models.Appointment {
	candidates := make([]models.Appointment, 0, len(booked))
	for _, appt := range booked {
		if !appt.Blocking() || (excludeID != "" && appt.ID == excludeID) {
			continue
		}
		if timerange.Overlaps(appt.Range(), proposed) {
			candidates = append(candidates, appt)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].StartTime.Before(candidates[j].StartTime)
	})
	return &candidates[0]
}

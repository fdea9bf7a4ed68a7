package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
)

type appointmentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
}

type slotGenerator interface {
	Generate(constraints *models.ConstraintSet, dateRange models.DateRange, duration, granularity time.Duration) ([]models.TimeSlot, error)
	DefaultGranularity() time.Duration
}

// RescheduleConfig tunes suggestion behaviour.
type RescheduleConfig struct {
	MaxSuggestions int
	HorizonDays    int
	// ExcludeRescheduled drops the appointment's own booked interval from
	// the constraint set before generating, so its original slot can be
	// re-suggested. Off by default: as long as the appointment still
	// occupies its slot in the store, that slot is genuinely taken, and a
	// caller wanting it considered free must release it first.
	ExcludeRescheduled bool
}

// RescheduleService ranks replacement slots for an existing appointment.
type RescheduleService struct {
	appointments appointmentFinder
	constraints  constraintLoader
	generator    slotGenerator
	cfg          RescheduleConfig
	logger       *zap.Logger
	now          func() time.Time
}

// NewRescheduleService wires the reschedule advisor.
func NewRescheduleService(appointments appointmentFinder, constraints constraintLoader, generator slotGenerator, cfg RescheduleConfig, logger *zap.Logger) *RescheduleService {
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = 5
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 7
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RescheduleService{
		appointments: appointments,
		constraints:  constraints,
		generator:    generator,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// Suggest returns up to maxSuggestions candidate slots of the appointment's
// duration within the next horizonDays, earliest first. Zero arguments fall
// back to the configured defaults. A fully booked horizon yields an empty
// slice, not an error.
func (s *RescheduleService) Suggest(ctx context.Context, appointmentID string, maxSuggestions, horizonDays int) ([]models.TimeSlot, error) {
	if maxSuggestions <= 0 {
		maxSuggestions = s.cfg.MaxSuggestions
	}
	if horizonDays <= 0 {
		horizonDays = s.cfg.HorizonDays
	}

	appt, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load appointment")
	}
	if appt == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
	}

	duration := appt.Duration()
	if duration <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "appointment has a non-positive duration")
	}

	today := dayStart(s.now())
	dateRange := models.DateRange{From: today, To: today.AddDate(0, 0, horizonDays)}

	constraints, err := s.constraints.Load(ctx, appt.ProviderID, appt.LocationID, dateRange)
	if err != nil {
		return nil, err
	}

	if s.cfg.ExcludeRescheduled {
		kept := constraints.Booked[:0:0]
		for _, booked := range constraints.Booked {
			if booked.ID != appt.ID {
				kept = append(kept, booked)
			}
		}
		constraints.Booked = kept
	}

	slots, err := s.generator.Generate(constraints, dateRange, duration, s.generator.DefaultGranularity())
	if err != nil {
		return nil, err
	}

	if len(slots) > maxSuggestions {
		slots = slots[:maxSuggestions]
	}

	s.logger.Debug("reschedule suggestions computed",
		zap.String("appointment_id", appointmentID),
		zap.Int("suggestions", len(slots)),
		zap.Int("horizon_days", horizonDays),
	)
	return slots, nil
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/clinic-scheduling-api/internal/dto"
	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
)

type appointmentStore interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	ListBlockingForUpdate(ctx context.Context, exec sqlx.ExtContext, providerID string, from, to time.Time) ([]models.Appointment, error)
	Create(ctx context.Context, exec sqlx.ExtContext, appt *models.Appointment) error
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
}

type conflictChecker interface {
	Check(constraints *models.ConstraintSet, providerID string, start, end time.Time, excludeAppointmentID string) (models.ConflictResult, error)
}

// BookingConflictError is returned when a booking attempt collides with
// working hours, time off or an existing appointment. It carries the full
// classification so handlers can report what blocked the booking.
type BookingConflictError struct {
	Result models.ConflictResult
}

func (e *BookingConflictError) Error() string {
	return fmt.Sprintf("booking conflict: %s", e.Result.Kind)
}

// AppointmentService books, lists and transitions appointments. Bookings run
// the conflict check and the insert inside one transaction with the blocking
// rows locked, so concurrent requests for the same provider serialise instead
// of double-booking.
type AppointmentService struct {
	appointments appointmentStore
	constraints  constraintLoader
	conflicts    conflictChecker
	cache        *CacheService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAppointmentService wires the appointment service.
func NewAppointmentService(
	appointments appointmentStore,
	constraints constraintLoader,
	conflicts conflictChecker,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
) *AppointmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentService{
		appointments: appointments,
		constraints:  constraints,
		conflicts:    conflicts,
		cache:        cache,
		validator:    validate,
		logger:       logger,
	}
}

// Create books a new appointment. The proposed interval is checked against
// working hours, time off and existing bookings; on any collision the booking
// is rejected with a BookingConflictError and nothing is written.
func (s *AppointmentService) Create(ctx context.Context, req dto.CreateAppointmentRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment payload")
	}
	if !req.Start.Before(req.End) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "appointment start must be before end")
	}

	dateRange := models.DateRange{From: req.Start, To: req.End}
	constraints, err := s.constraints.Load(ctx, req.ProviderID, req.LocationID, dateRange)
	if err != nil {
		return nil, err
	}

	tx, err := s.appointments.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "begin booking transaction")
	}
	defer tx.Rollback()

	// Re-read the blocking rows with locks held so a concurrent booking for
	// the same provider cannot pass the check against a stale snapshot.
	booked, err := s.appointments.ListBlockingForUpdate(ctx, tx, req.ProviderID, req.Start, req.End)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "lock blocking appointments")
	}
	constraints.Booked = booked

	result, err := s.conflicts.Check(constraints, req.ProviderID, req.Start, req.End, "")
	if err != nil {
		return nil, err
	}
	if result.HasConflict {
		return nil, &BookingConflictError{Result: result}
	}

	appt := &models.Appointment{
		ProviderID: req.ProviderID,
		LocationID: req.LocationID,
		PatientID:  req.PatientID,
		StartTime:  req.Start,
		EndTime:    req.End,
		Status:     models.StatusScheduled,
		Notes:      req.Notes,
	}
	if err := s.appointments.Create(ctx, tx, appt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "insert appointment")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "commit booking")
	}

	s.invalidateAvailability(ctx, req.ProviderID)
	s.logger.Info("appointment booked",
		zap.String("appointment_id", appt.ID),
		zap.String("provider_id", appt.ProviderID),
		zap.Time("start", appt.StartTime),
	)
	return appt, nil
}

// Get returns a single appointment by id.
func (s *AppointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load appointment")
	}
	if appt == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
	}
	return appt, nil
}

// List returns appointments matching the filter with a total count.
func (s *AppointmentService) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	appointments, total, err := s.appointments.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "list appointments")
	}
	return appointments, total, nil
}

// UpdateStatus transitions an appointment through its lifecycle, rejecting
// transitions the state machine does not allow (e.g. completed -> scheduled).
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	if !models.ValidStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", status))
	}

	appt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(appt.Status, status) {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("cannot transition from %s to %s", appt.Status, status))
	}

	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "update appointment status")
	}

	// Leaving or entering a blocking status changes the provider's calendar.
	wasBlocking := appt.Blocking()
	appt.Status = status
	if wasBlocking != appt.Blocking() {
		s.invalidateAvailability(ctx, appt.ProviderID)
	}

	s.logger.Info("appointment status updated",
		zap.String("appointment_id", id),
		zap.String("status", string(status)),
	)
	return appt, nil
}

func (s *AppointmentService) invalidateAvailability(ctx context.Context, providerID string) {
	if s.cache == nil || !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, AvailabilityCachePattern(providerID)); err != nil {
		s.logger.Warn("availability cache invalidation failed",
			zap.String("provider_id", providerID),
			zap.Error(err),
		)
	}
}

package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
)

type providerReader interface {
	FindByID(ctx context.Context, id string) (*models.Provider, error)
}

type locationReader interface {
	FindByID(ctx context.Context, id string) (*models.Location, error)
}

type workingHoursReader interface {
	ListActive(ctx context.Context, providerID, locationID string, weekdays []int) ([]models.WorkingHoursRule, error)
}

type timeOffReader interface {
	ListOverlapping(ctx context.Context, providerID string, from, to time.Time) ([]models.TimeOffPeriod, error)
}

type blockingAppointmentReader interface {
	ListBlocking(ctx context.Context, providerID string, from, to time.Time) ([]models.Appointment, error)
}

// ConstraintService is the only component of the availability engine that
// touches the data store. It batch-loads every constraint source for a
// provider/location/date-range in one pass; the downstream computations are
// pure functions over the returned set.
type ConstraintService struct {
	providers    providerReader
	locations    locationReader
	workingHours workingHoursReader
	timeOff      timeOffReader
	appointments blockingAppointmentReader
	logger       *zap.Logger
}

// NewConstraintService wires the constraint loader.
func NewConstraintService(
	providers providerReader,
	locations locationReader,
	workingHours workingHoursReader,
	timeOff timeOffReader,
	appointments blockingAppointmentReader,
	logger *zap.Logger,
) *ConstraintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintService{
		providers:    providers,
		locations:    locations,
		workingHours: workingHours,
		timeOff:      timeOff,
		appointments: appointments,
		logger:       logger,
	}
}

// Load fetches working hours, time off and blocking appointments for the
// provider/location over the date range. Empty slices (never nil) signal a
// provider with no availability that period; unresolved ids fail with
// NOT_FOUND and fetch failures with DATA_SOURCE_ERROR, both unretried.
func (s *ConstraintService) Load(ctx context.Context, providerID, locationID string, dateRange models.DateRange) (*models.ConstraintSet, error) {
	if !dateRange.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "date range start must be before end")
	}

	provider, err := s.providers.FindByID(ctx, providerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load provider")
	}
	if provider == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "provider not found")
	}

	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load location")
	}
	if location == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "location not found")
	}

	weekdaySet := dateRange.Weekdays()
	weekdays := make([]int, 0, len(weekdaySet))
	for day := 0; day < 7; day++ {
		if weekdaySet[day] {
			weekdays = append(weekdays, day)
		}
	}

	rules, err := s.workingHours.ListActive(ctx, providerID, locationID, weekdays)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load working hours")
	}

	timeOff, err := s.timeOff.ListOverlapping(ctx, providerID, dateRange.From, dateRange.To)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load time off")
	}

	booked, err := s.appointments.ListBlocking(ctx, providerID, dateRange.From, dateRange.To)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load appointments")
	}

	if rules == nil {
		rules = []models.WorkingHoursRule{}
	}
	if timeOff == nil {
		timeOff = []models.TimeOffPeriod{}
	}
	if booked == nil {
		booked = []models.Appointment{}
	}

	s.logger.Debug("constraints loaded",
		zap.String("provider_id", providerID),
		zap.String("location_id", locationID),
		zap.Int("working_hours", len(rules)),
		zap.Int("time_off", len(timeOff)),
		zap.Int("booked", len(booked)),
	)

	return &models.ConstraintSet{
		ProviderID:   providerID,
		LocationID:   locationID,
		WorkingHours: rules,
		TimeOff:      timeOff,
		Booked:       booked,
	}, nil
}

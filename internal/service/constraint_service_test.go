package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
)

type providerReaderStub struct {
	provider *models.Provider
	err      error
}

func (s *providerReaderStub) FindByID(ctx context.Context, id string) (*models.Provider, error) {
	return s.provider, s.err
}

type locationReaderStub struct {
	location *models.Location
	err      error
}

func (s *locationReaderStub) FindByID(ctx context.Context, id string) (*models.Location, error) {
	return s.location, s.err
}

type workingHoursReaderStub struct {
	rules    []models.WorkingHoursRule
	weekdays []int
	err      error
}

func (s *workingHoursReaderStub) ListActive(ctx context.Context, providerID, locationID string, weekdays []int) ([]models.WorkingHoursRule, error) {
	s.weekdays = weekdays
	return s.rules, s.err
}

type timeOffReaderStub struct {
	periods []models.TimeOffPeriod
	err     error
}

func (s *timeOffReaderStub) ListOverlapping(ctx context.Context, providerID string, from, to time.Time) ([]models.TimeOffPeriod, error) {
	return s.periods, s.err
}

type blockingReaderStub struct {
	appointments []models.Appointment
	err          error
}

func (s *blockingReaderStub) ListBlocking(ctx context.Context, providerID string, from, to time.Time) ([]models.Appointment, error) {
	return s.appointments, s.err
}

func TestConstraintLoadHappyPath(t *testing.T) {
	workingHours := &workingHoursReaderStub{rules: []models.WorkingHoursRule{{ID: "wh-1", DayOfWeek: 1}}}
	svc := NewConstraintService(
		&providerReaderStub{provider: &models.Provider{ID: "prov-1"}},
		&locationReaderStub{location: &models.Location{ID: "loc-1"}},
		workingHours,
		&timeOffReaderStub{},
		&blockingReaderStub{},
		nil,
	)

	set, err := svc.Load(context.Background(), "prov-1", "loc-1", mondayRange())
	require.NoError(t, err)
	assert.Equal(t, "prov-1", set.ProviderID)
	assert.Equal(t, "loc-1", set.LocationID)
	require.Len(t, set.WorkingHours, 1)
	assert.NotNil(t, set.TimeOff, "slices are never nil")
	assert.NotNil(t, set.Booked)
	assert.Equal(t, []int{1}, workingHours.weekdays, "a single Monday queries only weekday 1")
}

func TestConstraintLoadUnknownProvider(t *testing.T) {
	svc := NewConstraintService(
		&providerReaderStub{},
		&locationReaderStub{location: &models.Location{ID: "loc-1"}},
		&workingHoursReaderStub{},
		&timeOffReaderStub{},
		&blockingReaderStub{},
		nil,
	)

	_, err := svc.Load(context.Background(), "ghost", "loc-1", mondayRange())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestConstraintLoadUnknownLocation(t *testing.T) {
	svc := NewConstraintService(
		&providerReaderStub{provider: &models.Provider{ID: "prov-1"}},
		&locationReaderStub{},
		&workingHoursReaderStub{},
		&timeOffReaderStub{},
		&blockingReaderStub{},
		nil,
	)

	_, err := svc.Load(context.Background(), "prov-1", "ghost", mondayRange())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestConstraintLoadDataSourceFailure(t *testing.T) {
	svc := NewConstraintService(
		&providerReaderStub{provider: &models.Provider{ID: "prov-1"}},
		&locationReaderStub{location: &models.Location{ID: "loc-1"}},
		&workingHoursReaderStub{err: errors.New("connection refused")},
		&timeOffReaderStub{},
		&blockingReaderStub{},
		nil,
	)

	_, err := svc.Load(context.Background(), "prov-1", "loc-1", mondayRange())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDataSource.Code, appErrors.FromError(err).Code)
}

func TestConstraintLoadInvalidRange(t *testing.T) {
	svc := NewConstraintService(
		&providerReaderStub{provider: &models.Provider{ID: "prov-1"}},
		&locationReaderStub{location: &models.Location{ID: "loc-1"}},
		&workingHoursReaderStub{},
		&timeOffReaderStub{},
		&blockingReaderStub{},
		nil,
	)

	_, err := svc.Load(context.Background(), "prov-1", "loc-1", models.DateRange{From: monday, To: monday})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
)

// 2025-03-10 is a Monday.
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func mondayAt(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func mondayRange() models.DateRange {
	return models.DateRange{From: monday, To: monday.AddDate(0, 0, 1)}
}

func splitShiftConstraints() *models.ConstraintSet {
	return &models.ConstraintSet{
		ProviderID: "prov-1",
		LocationID: "loc-1",
		WorkingHours: []models.WorkingHoursRule{
			{ID: "wh-1", ProviderID: "prov-1", LocationID: "loc-1", DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
			{ID: "wh-2", ProviderID: "prov-1", LocationID: "loc-1", DayOfWeek: 1, StartTime: "13:00", EndTime: "17:00", Active: true},
		},
		TimeOff: []models.TimeOffPeriod{},
		Booked:  []models.Appointment{},
	}
}

type constraintLoaderStub struct {
	constraints *models.ConstraintSet
	err         error
}

func (s *constraintLoaderStub) Load(ctx context.Context, providerID, locationID string, dateRange models.DateRange) (*models.ConstraintSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.constraints, nil
}

func newAvailability(constraints *models.ConstraintSet) *AvailabilityService {
	return NewAvailabilityService(&constraintLoaderStub{constraints: constraints}, nil, nil, nil, 15*time.Minute)
}

func TestGenerateSplitShiftDay(t *testing.T) {
	svc := newAvailability(nil)
	slots, err := svc.Generate(splitShiftConstraints(), mondayRange(), 15*time.Minute, 15*time.Minute)
	require.NoError(t, err)

	// 12 starts in 09:00-12:00 plus 16 in 13:00-17:00.
	require.Len(t, slots, 28)
	assert.Equal(t, mondayAt(9, 0), slots[0].Start)
	for _, slot := range slots {
		assert.False(t, slot.Start.Before(mondayAt(12, 0)) && slot.End.After(mondayAt(12, 0)),
			"slot %v spans the midday gap", slot.Start)
	}
}

func TestGenerateSlotsMustFitWindow(t *testing.T) {
	svc := newAvailability(nil)
	slots, err := svc.Generate(splitShiftConstraints(), mondayRange(), 30*time.Minute, 15*time.Minute)
	require.NoError(t, err)

	// Last morning start is 11:30, last afternoon start 16:30.
	require.Len(t, slots, 26)
	for _, slot := range slots {
		if slot.Start.Before(mondayAt(12, 0)) {
			assert.False(t, slot.End.After(mondayAt(12, 0)))
		} else {
			assert.False(t, slot.Start.Before(mondayAt(13, 0)))
			assert.False(t, slot.End.After(mondayAt(17, 0)))
		}
	}
}

func TestGenerateJumpPastBookingKeepsAdjacentSlots(t *testing.T) {
	constraints := splitShiftConstraints()
	constraints.Booked = []models.Appointment{
		{ID: "appt-1", ProviderID: "prov-1", StartTime: mondayAt(10, 0), EndTime: mondayAt(10, 30), Status: models.StatusScheduled},
	}

	svc := newAvailability(nil)
	slots, err := svc.Generate(constraints, mondayRange(), 30*time.Minute, 15*time.Minute)
	require.NoError(t, err)

	starts := make(map[time.Time]bool, len(slots))
	for _, slot := range slots {
		starts[slot.Start] = true
	}
	assert.True(t, starts[mondayAt(9, 30)], "09:30 slot ends exactly at the booking start and must survive")
	assert.False(t, starts[mondayAt(9, 45)], "09:45 slot overlaps the booking")
	assert.False(t, starts[mondayAt(10, 0)])
	assert.False(t, starts[mondayAt(10, 15)])
	assert.True(t, starts[mondayAt(10, 30)], "the jump past the booking must land on 10:30, not skip it")
}

func TestGenerateTimeOffTruncatesDay(t *testing.T) {
	constraints := &models.ConstraintSet{
		ProviderID: "prov-1",
		LocationID: "loc-1",
		WorkingHours: []models.WorkingHoursRule{
			{ID: "wh-1", DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", Active: true},
		},
		TimeOff: []models.TimeOffPeriod{
			{ID: "to-1", ProviderID: "prov-1", StartTime: mondayAt(14, 0), EndTime: mondayAt(17, 0)},
		},
	}

	svc := newAvailability(nil)
	slots, err := svc.Generate(constraints, mondayRange(), 30*time.Minute, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	for _, slot := range slots {
		assert.False(t, slot.End.After(mondayAt(14, 0)), "slot %v extends into the time off", slot.Start)
	}
}

func TestGenerateGranularityAlignment(t *testing.T) {
	constraints := splitShiftConstraints()
	constraints.Booked = []models.Appointment{
		// Booking end not on a granularity step forces the jump to re-align.
		{ID: "appt-1", ProviderID: "prov-1", StartTime: mondayAt(9, 40), EndTime: mondayAt(10, 10), Status: models.StatusConfirmed},
	}

	svc := newAvailability(nil)
	slots, err := svc.Generate(constraints, mondayRange(), 30*time.Minute, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	morningAnchor := mondayAt(9, 0)
	afternoonAnchor := mondayAt(13, 0)
	for _, slot := range slots {
		anchor := morningAnchor
		if !slot.Start.Before(afternoonAnchor) {
			anchor = afternoonAnchor
		}
		assert.Zero(t, slot.Start.Sub(anchor)%(15*time.Minute), "slot %v misaligned with its window", slot.Start)
	}
}

func TestGenerateDurationLongerThanWindow(t *testing.T) {
	constraints := &models.ConstraintSet{
		ProviderID: "prov-1",
		LocationID: "loc-1",
		WorkingHours: []models.WorkingHoursRule{
			{ID: "wh-1", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", Active: true},
		},
	}

	svc := newAvailability(nil)
	slots, err := svc.Generate(constraints, mondayRange(), 2*time.Hour, 15*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateEmptyConstraintSet(t *testing.T) {
	svc := newAvailability(nil)
	slots, err := svc.Generate(&models.ConstraintSet{ProviderID: "prov-1", LocationID: "loc-1"}, mondayRange(), 30*time.Minute, 15*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateInvalidArguments(t *testing.T) {
	svc := newAvailability(nil)

	_, err := svc.Generate(splitShiftConstraints(), models.DateRange{From: monday, To: monday}, 30*time.Minute, 15*time.Minute)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)

	_, err = svc.Generate(splitShiftConstraints(), mondayRange(), 0, 15*time.Minute)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)
}

func TestGenerateConsistentWithConflictCheck(t *testing.T) {
	constraints := splitShiftConstraints()
	constraints.Booked = []models.Appointment{
		{ID: "appt-1", ProviderID: "prov-1", StartTime: mondayAt(10, 0), EndTime: mondayAt(11, 0), Status: models.StatusScheduled},
	}
	constraints.TimeOff = []models.TimeOffPeriod{
		{ID: "to-1", ProviderID: "prov-1", StartTime: mondayAt(15, 0), EndTime: mondayAt(16, 0)},
	}

	availability := newAvailability(nil)
	conflicts := NewConflictService(nil, nil)

	slots, err := availability.Generate(constraints, mondayRange(), 30*time.Minute, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for _, slot := range slots {
		result, err := conflicts.Check(constraints, "prov-1", slot.Start, slot.End, "")
		require.NoError(t, err)
		assert.False(t, result.HasConflict, "generated slot %v must pass the conflict check", slot.Start)
	}

	// And an interval fully inside each obstruction must be rejected.
	booked, err := conflicts.Check(constraints, "prov-1", mondayAt(10, 15), mondayAt(10, 45), "")
	require.NoError(t, err)
	assert.True(t, booked.HasConflict)
	assert.Equal(t, models.ConflictExistingAppointment, booked.Kind)

	off, err := conflicts.Check(constraints, "prov-1", mondayAt(15, 15), mondayAt(15, 45), "")
	require.NoError(t, err)
	assert.True(t, off.HasConflict)
	assert.Equal(t, models.ConflictTimeOff, off.Kind)
}

func TestGenerateIgnoresNonBlockingAppointments(t *testing.T) {
	constraints := splitShiftConstraints()
	constraints.Booked = []models.Appointment{
		{ID: "appt-1", ProviderID: "prov-1", StartTime: mondayAt(10, 0), EndTime: mondayAt(10, 30), Status: models.StatusCancelled},
	}

	svc := newAvailability(nil)
	slots, err := svc.Generate(constraints, mondayRange(), 30*time.Minute, 15*time.Minute)
	require.NoError(t, err)

	starts := make(map[time.Time]bool, len(slots))
	for _, slot := range slots {
		starts[slot.Start] = true
	}
	assert.True(t, starts[mondayAt(10, 0)], "cancelled bookings must not block the calendar")
}

type cacheRepoStub struct {
	store map[string][]byte
	gets  int
	sets  int
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	s.gets++
	if _, ok := s.store[key]; !ok {
		return appErrors.ErrCacheMiss
	}
	// Simplified stub: the single cached value in these tests is always an
	// empty slot slice, so decoding is a no-op.
	return nil
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.sets++
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	s.store[key] = []byte("cached")
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.store = nil
	return nil
}

func TestListSlotsWritesAndReadsCache(t *testing.T) {
	repo := &cacheRepoStub{}
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	loader := &constraintLoaderStub{constraints: &models.ConstraintSet{ProviderID: "prov-1", LocationID: "loc-1"}}
	svc := NewAvailabilityService(loader, cache, nil, nil, 15*time.Minute)

	_, err := svc.ListSlots(context.Background(), "prov-1", "loc-1", mondayRange(), 30*time.Minute, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.sets)

	_, err = svc.ListSlots(context.Background(), "prov-1", "loc-1", mondayRange(), 30*time.Minute, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.sets, "second identical request must be served from cache")
	assert.Equal(t, 2, repo.gets)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-scheduling-api/internal/dto"
	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
)

type workingHoursStoreStub struct {
	rules    []models.WorkingHoursRule
	replaced []models.WorkingHoursRule
	err      error
}

func (s *workingHoursStoreStub) ListAll(ctx context.Context, providerID, locationID string) ([]models.WorkingHoursRule, error) {
	return s.rules, s.err
}

func (s *workingHoursStoreStub) Replace(ctx context.Context, providerID, locationID string, rules []models.WorkingHoursRule) error {
	if s.err != nil {
		return s.err
	}
	s.replaced = rules
	return nil
}

func newWorkingHoursService(store *workingHoursStoreStub) *WorkingHoursService {
	return NewWorkingHoursService(
		&providerReaderStub{provider: &models.Provider{ID: "prov-1"}},
		&locationReaderStub{location: &models.Location{ID: "loc-1"}},
		store,
		nil, nil, nil,
	)
}

func TestWorkingHoursReplace(t *testing.T) {
	store := &workingHoursStoreStub{}
	svc := newWorkingHoursService(store)

	rules, err := svc.Replace(context.Background(), "prov-1", "loc-1", dto.ReplaceWorkingHoursRequest{
		Rules: []dto.WorkingHoursRuleRequest{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
			{DayOfWeek: 1, StartTime: "13:00", EndTime: "17:00", Room: "A", Active: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "prov-1", rules[0].ProviderID)
	assert.Equal(t, "A", rules[1].Room)
	require.Len(t, store.replaced, 2)
}

func TestWorkingHoursReplaceRejectsInvertedWindow(t *testing.T) {
	svc := newWorkingHoursService(&workingHoursStoreStub{})

	_, err := svc.Replace(context.Background(), "prov-1", "loc-1", dto.ReplaceWorkingHoursRequest{
		Rules: []dto.WorkingHoursRuleRequest{
			{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00", Active: true},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)
}

func TestWorkingHoursReplaceRejectsMalformedClock(t *testing.T) {
	svc := newWorkingHoursService(&workingHoursStoreStub{})

	_, err := svc.Replace(context.Background(), "prov-1", "loc-1", dto.ReplaceWorkingHoursRequest{
		Rules: []dto.WorkingHoursRuleRequest{
			{DayOfWeek: 1, StartTime: "9am", EndTime: "17:00", Active: true},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestWorkingHoursReplaceUnknownProvider(t *testing.T) {
	svc := NewWorkingHoursService(
		&providerReaderStub{},
		&locationReaderStub{location: &models.Location{ID: "loc-1"}},
		&workingHoursStoreStub{},
		nil, nil, nil,
	)

	_, err := svc.Replace(context.Background(), "ghost", "loc-1", dto.ReplaceWorkingHoursRequest{
		Rules: []dto.WorkingHoursRuleRequest{},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestWorkingHoursListNormalisesNil(t *testing.T) {
	svc := newWorkingHoursService(&workingHoursStoreStub{})

	rules, err := svc.List(context.Background(), "prov-1", "loc-1")
	require.NoError(t, err)
	assert.NotNil(t, rules)
	assert.Empty(t, rules)
}

package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/clinic-scheduling-api/internal/dto"
	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
)

type workingHoursStore interface {
	ListAll(ctx context.Context, providerID, locationID string) ([]models.WorkingHoursRule, error)
	Replace(ctx context.Context, providerID, locationID string, rules []models.WorkingHoursRule) error
}

// WorkingHoursService manages the recurring weekly windows a provider is
// bookable in. The rule set for a provider/location is replaced wholesale
// rather than edited per row.
type WorkingHoursService struct {
	providers providerReader
	locations locationReader
	rules     workingHoursStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkingHoursService wires the working hours service.
func NewWorkingHoursService(
	providers providerReader,
	locations locationReader,
	rules workingHoursStore,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
) *WorkingHoursService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkingHoursService{
		providers: providers,
		locations: locations,
		rules:     rules,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// List returns every rule (active or not) for the provider/location.
func (s *WorkingHoursService) List(ctx context.Context, providerID, locationID string) ([]models.WorkingHoursRule, error) {
	if err := s.resolve(ctx, providerID, locationID); err != nil {
		return nil, err
	}
	rules, err := s.rules.ListAll(ctx, providerID, locationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load working hours")
	}
	if rules == nil {
		rules = []models.WorkingHoursRule{}
	}
	return rules, nil
}

// Replace swaps the full rule set for a provider/location. An empty rule list
// clears the provider's schedule at that location.
func (s *WorkingHoursService) Replace(ctx context.Context, providerID, locationID string, req dto.ReplaceWorkingHoursRequest) ([]models.WorkingHoursRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid working hours payload")
	}
	if err := s.resolve(ctx, providerID, locationID); err != nil {
		return nil, err
	}

	rules := make([]models.WorkingHoursRule, 0, len(req.Rules))
	for i, r := range req.Rules {
		if !validClock(r.StartTime) || !validClock(r.EndTime) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rule %d: times must be HH:MM", i))
		}
		if r.StartTime >= r.EndTime {
			return nil, appErrors.Clone(appErrors.ErrInvalidRange, fmt.Sprintf("rule %d: start %s must be before end %s", i, r.StartTime, r.EndTime))
		}
		rules = append(rules, models.WorkingHoursRule{
			ProviderID: providerID,
			LocationID: locationID,
			DayOfWeek:  r.DayOfWeek,
			StartTime:  r.StartTime,
			EndTime:    r.EndTime,
			Room:       r.Room,
			Active:     r.Active,
		})
	}

	if err := s.rules.Replace(ctx, providerID, locationID, rules); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "replace working hours")
	}

	s.invalidateAvailability(ctx, providerID)
	s.logger.Info("working hours replaced",
		zap.String("provider_id", providerID),
		zap.String("location_id", locationID),
		zap.Int("rules", len(rules)),
	)
	return rules, nil
}

func (s *WorkingHoursService) resolve(ctx context.Context, providerID, locationID string) error {
	provider, err := s.providers.FindByID(ctx, providerID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load provider")
	}
	if provider == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "provider not found")
	}
	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load location")
	}
	if location == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "location not found")
	}
	return nil
}

func (s *WorkingHoursService) invalidateAvailability(ctx context.Context, providerID string) {
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

// validClock accepts "HH:MM" with HH in 00..23 and MM in 00..59.
func validClock(v string) bool {
	if len(v) != 5 || v[2] != ':' {
		return false
	}
	hh := int(v[0]-'0')*10 + int(v[1]-'0')
	mm := int(v[3]-'0')*10 + int(v[4]-'0')
	for _, c := range []byte{v[0], v[1], v[3], v[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}
	return hh >= 0 && hh <= 23 && mm >= 0 && mm <= 59
}

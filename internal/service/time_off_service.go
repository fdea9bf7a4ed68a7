package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/clinic-scheduling-api/internal/dto"
	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
)

type timeOffStore interface {
	ListOverlapping(ctx context.Context, providerID string, from, to time.Time) ([]models.TimeOffPeriod, error)
	Create(ctx context.Context, period *models.TimeOffPeriod) error
	FindByID(ctx context.Context, id string) (*models.TimeOffPeriod, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// TimeOffService manages one-off blocked periods on a provider's calendar.
type TimeOffService struct {
	providers providerReader
	periods   timeOffStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeOffService wires the time off service.
func NewTimeOffService(
	providers providerReader,
	periods timeOffStore,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimeOffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeOffService{
		providers: providers,
		periods:   periods,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// Create records a blocked period for the provider.
func (s *TimeOffService) Create(ctx context.Context, providerID string, req dto.CreateTimeOffRequest) (*models.TimeOffPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time off payload")
	}
	if !req.Start.Before(req.End) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "time off start must be before end")
	}

	provider, err := s.providers.FindByID(ctx, providerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load provider")
	}
	if provider == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "provider not found")
	}

	period := &models.TimeOffPeriod{
		ProviderID: providerID,
		StartTime:  req.Start,
		EndTime:    req.End,
		AllDay:     req.AllDay,
		Reason:     req.Reason,
	}
	if err := s.periods.Create(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "create time off")
	}

	s.invalidateAvailability(ctx, providerID)
	s.logger.Info("time off created",
		zap.String("provider_id", providerID),
		zap.Time("start", period.StartTime),
		zap.Time("end", period.EndTime),
	)
	return period, nil
}

// List returns the periods overlapping [from, to) for the provider.
func (s *TimeOffService) List(ctx context.Context, providerID string, dateRange models.DateRange) ([]models.TimeOffPeriod, error) {
	if !dateRange.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "date range start must be before end")
	}
	periods, err := s.periods.ListOverlapping(ctx, providerID, dateRange.From, dateRange.To)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "list time off")
	}
	if periods == nil {
		periods = []models.TimeOffPeriod{}
	}
	return periods, nil
}

// Delete removes a blocked period, freeing the calendar back up.
func (s *TimeOffService) Delete(ctx context.Context, id string) error {
	period, err := s.periods.FindByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "load time off")
	}
	if period == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "time off period not found")
	}

	deleted, err := s.periods.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "delete time off")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "time off period not found")
	}

	s.invalidateAvailability(ctx, period.ProviderID)
	s.logger.Info("time off deleted",
		zap.String("time_off_id", id),
		zap.String("provider_id", period.ProviderID),
	)
	return nil
}

func (s *TimeOffService) invalidateAvailability(ctx context.Context, providerID string) {
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

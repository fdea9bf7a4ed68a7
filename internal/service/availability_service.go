package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
	"github.com/noah-isme/clinic-scheduling-api/pkg/timerange"
)

type constraintLoader interface {
	Load(ctx context.Context, providerID, locationID string, dateRange models.DateRange) (*models.ConstraintSet, error)
}

// AvailabilityService turns a constraint set into bookable slots.
type AvailabilityService struct {
	constraints constraintLoader
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
	granularity time.Duration
}

// NewAvailabilityService wires the availability generator. The cache and
// metrics collaborators are optional.
func NewAvailabilityService(constraints constraintLoader, cache *CacheService, metrics *MetricsService, logger *zap.Logger, defaultGranularity time.Duration) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultGranularity <= 0 {
		defaultGranularity = 15 * time.Minute
	}
	return &AvailabilityService{
		constraints: constraints,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		granularity: defaultGranularity,
	}
}

// DefaultGranularity returns the configured slot step.
func (s *AvailabilityService) DefaultGranularity() time.Duration {
	return s.granularity
}

// ListSlots loads constraints and generates slots, consulting the
// availability cache when enabled. This is the request-facing entry point;
// Generate below is the pure computation.
func (s *AvailabilityService) ListSlots(ctx context.Context, providerID, locationID string, dateRange models.DateRange, duration, granularity time.Duration) ([]models.TimeSlot, error) {
	if granularity <= 0 {
		granularity = s.granularity
	}
	if err := validateGenerateArgs(dateRange, duration, granularity); err != nil {
		return nil, err
	}

	key := availabilityCacheKey(providerID, locationID, dateRange, duration, granularity)
	var cached []models.TimeSlot
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	constraints, err := s.constraints.Load(ctx, providerID, locationID, dateRange)
	if err != nil {
		return nil, err
	}

	slots, err := s.Generate(constraints, dateRange, duration, granularity)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, slots, 0); err != nil {
		s.logger.Warn("availability cache write failed", zap.Error(err))
	}
	return slots, nil
}

// Generate combines the constraint set into an ordered slice of bookable
// slots for the requested duration. Pure: no I/O, no retained state, safe
// for concurrent use.
//
// Per calendar day: the day's working windows are looked up by weekday, the
// blocked set (time off plus booked appointments) is merged once, and a
// cursor walks each window in granularity steps. When a candidate slot hits
// a blocked range the cursor jumps straight past the obstruction instead of
// stepping through it, so the walk costs O(windows + blocked ranges) rather
// than O(window length / granularity). The jump lands on the next
// granularity-aligned instant at or after the obstruction's end, keeping
// every emitted start aligned to its window.
func (s *AvailabilityService) Generate(constraints *models.ConstraintSet, dateRange models.DateRange, duration, granularity time.Duration) ([]models.TimeSlot, error) {
	if granularity <= 0 {
		granularity = s.granularity
	}
	if err := validateGenerateArgs(dateRange, duration, granularity); err != nil {
		return nil, err
	}

	started := time.Now()

	rulesByDay := make(map[int][]models.WorkingHoursRule, 7)
	for _, rule := range constraints.WorkingHours {
		if rule.Active {
			rulesByDay[rule.DayOfWeek] = append(rulesByDay[rule.DayOfWeek], rule)
		}
	}

	blocked := blockedRanges(constraints)

	slots := []models.TimeSlot{}
	for day := dayStart(dateRange.From); day.Before(dateRange.To); day = day.AddDate(0, 0, 1) {
		rules := rulesByDay[int(day.Weekday())]
		if len(rules) == 0 {
			continue
		}
		for _, rule := range rules {
			window, err := rule.Window(day)
			if err != nil {
				s.logger.Warn("skipping malformed working hours rule",
					zap.String("rule_id", rule.ID), zap.Error(err))
				continue
			}
			slots = append(slots, s.walkWindow(constraints, window, rule.Room, dateRange, blocked, duration, granularity)...)
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveAvailabilityGeneration(len(slots), time.Since(started))
	}
	return slots, nil
}

// walkWindow emits granularity-aligned slots of the given duration inside
// one working window, skipping blocked ranges in single jumps.
func (s *AvailabilityService) walkWindow(constraints *models.ConstraintSet, window timerange.Range, room string, dateRange models.DateRange, blocked []timerange.Range, duration, granularity time.Duration) []models.TimeSlot {
	var out []models.TimeSlot
	for t := window.Start; ; {
		end := t.Add(duration)
		if end.After(window.End) {
			break
		}
		candidate := timerange.Range{Start: t, End: end}

		if obstruction, hit := firstOverlap(blocked, candidate); hit {
			t = alignUp(obstruction.End, window.Start, granularity)
			continue
		}

		if !t.Before(dateRange.From) && !end.After(dateRange.To) {
			out = append(out, models.TimeSlot{
				Start:      t,
				End:        end,
				ProviderID: constraints.ProviderID,
				LocationID: constraints.LocationID,
				Room:       room,
			})
		}
		t = t.Add(granularity)
	}
	return out
}

func validateGenerateArgs(dateRange models.DateRange, duration, granularity time.Duration) error {
	switch {
	case !dateRange.Valid():
		return appErrors.Clone(appErrors.ErrInvalidRange, "date range start must be before end")
	case duration <= 0:
		return appErrors.Clone(appErrors.ErrInvalidRange, "duration must be positive")
	case granularity <= 0:
		return appErrors.Clone(appErrors.ErrInvalidRange, "granularity must be positive")
	}
	return nil
}

// blockedRanges merges time off and calendar-occupying appointments into a
// minimal sorted set of obstructions.
func blockedRanges(constraints *models.ConstraintSet) []timerange.Range {
	ranges := make([]timerange.Range, 0, len(constraints.TimeOff)+len(constraints.Booked))
	for _, period := range constraints.TimeOff {
		ranges = append(ranges, period.Range())
	}
	for _, appt := range constraints.Booked {
		if appt.Blocking() {
			ranges = append(ranges, appt.Range())
		}
	}
	return timerange.Merge(ranges)
}

// firstOverlap returns the earliest blocked range intersecting the
// candidate. blocked must be sorted by start and non-overlapping (the
// shape Merge produces).
func firstOverlap(blocked []timerange.Range, candidate timerange.Range) (timerange.Range, bool) {
	idx := sort.Search(len(blocked), func(i int) bool {
		return blocked[i].End.After(candidate.Start)
	})
	if idx < len(blocked) && timerange.Overlaps(blocked[idx], candidate) {
		return blocked[idx], true
	}
	return timerange.Range{}, false
}

// alignUp rounds t up to the next granularity step measured from anchor.
func alignUp(t, anchor time.Time, granularity time.Duration) time.Time {
	if !t.After(anchor) {
		return anchor
	}
	delta := t.Sub(anchor)
	steps := delta / granularity
	if delta%granularity != 0 {
		steps++
	}
	return anchor.Add(steps * granularity)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func availabilityCacheKey(providerID, locationID string, dateRange models.DateRange, duration, granularity time.Duration) string {
	return fmt.Sprintf("availability:%s:%s:%d:%d:%s:%s",
		providerID, locationID,
		dateRange.From.Unix(), dateRange.To.Unix(),
		duration, granularity,
	)
}

// AvailabilityCachePattern is the invalidation pattern for one provider's
// cached availability. Any write to working hours, time off or
// appointments for the provider must clear it.
func AvailabilityCachePattern(providerID string) string {
	return fmt.Sprintf("availability:%s:*", providerID)
}

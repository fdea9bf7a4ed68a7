package handler

import (
	"fmt"
	"time"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
)

// parseTimeParam accepts RFC3339 timestamps or bare dates (YYYY-MM-DD,
// interpreted as UTC midnight).
func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as RFC3339 or YYYY-MM-DD", raw)
}

func parseDateRange(fromRaw, toRaw string) (models.DateRange, error) {
	from, err := parseTimeParam(fromRaw)
	if err != nil {
		return models.DateRange{}, appErrors.Clone(appErrors.ErrValidation, "invalid from: "+err.Error())
	}
	to, err := parseTimeParam(toRaw)
	if err != nil {
		return models.DateRange{}, appErrors.Clone(appErrors.ErrValidation, "invalid to: "+err.Error())
	}
	dr := models.DateRange{From: from, To: to}
	if !dr.Valid() {
		return models.DateRange{}, appErrors.Clone(appErrors.ErrInvalidRange, "from must be before to")
	}
	return dr, nil
}

func parseDurationParam(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid duration %q", raw))
	}
	if d <= 0 {
		return 0, appErrors.Clone(appErrors.ErrInvalidRange, "duration must be positive")
	}
	return d, nil
}

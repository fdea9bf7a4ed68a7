package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
)

// WorkingHoursRepository manages recurring working-hours rules.
type WorkingHoursRepository struct {
	db *sqlx.DB
}

// NewWorkingHoursRepository constructs a WorkingHoursRepository.
func NewWorkingHoursRepository(db *sqlx.DB) *WorkingHoursRepository {
	return &WorkingHoursRepository{db: db}
}

// ListActive returns active rules for the provider/location limited to the
// given weekdays (0=Sunday..6=Saturday). An empty weekday set returns all
// active rules.
func (r *WorkingHoursRepository) ListActive(ctx context.Context, providerID, locationID string, weekdays []int) ([]models.WorkingHoursRule, error) {
	query := `SELECT id, provider_id, location_id, day_of_week, start_time, end_time, room, active, created_at, updated_at
FROM working_hours_rules
WHERE provider_id = $1 AND location_id = $2 AND active = TRUE`
	args := []interface{}{providerID, locationID}

	if len(weekdays) > 0 {
		query += " AND day_of_week = ANY($3)"
		args = append(args, pq.Array(weekdays))
	}
	query += " ORDER BY day_of_week ASC, start_time ASC"

	rules := []models.WorkingHoursRule{}
	if err := r.db.SelectContext(ctx, &rules, query, args...); err != nil {
		return nil, fmt.Errorf("list working hours rules: %w", err)
	}
	return rules, nil
}

// ListAll returns every rule for the provider/location, active or not.
func (r *WorkingHoursRepository) ListAll(ctx context.Context, providerID, locationID string) ([]models.WorkingHoursRule, error) {
	const query = `SELECT id, provider_id, location_id, day_of_week, start_time, end_time, room, active, created_at, updated_at
FROM working_hours_rules
WHERE provider_id = $1 AND location_id = $2
ORDER BY day_of_week ASC, start_time ASC`
	rules := []models.WorkingHoursRule{}
	if err := r.db.SelectContext(ctx, &rules, query, providerID, locationID); err != nil {
		return nil, fmt.Errorf("list working hours rules: %w", err)
	}
	return rules, nil
}

// Replace swaps the complete rule set for a provider/location inside one
// transaction.
func (r *WorkingHoursRepository) Replace(ctx context.Context, providerID, locationID string, rules []models.WorkingHoursRule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace working hours: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM working_hours_rules WHERE provider_id = $1 AND location_id = $2`,
		providerID, locationID); err != nil {
		return fmt.Errorf("clear working hours rules: %w", err)
	}

	const insert = `
INSERT INTO working_hours_rules (id, provider_id, location_id, day_of_week, start_time, end_time, room, active, created_at, updated_at)
VALUES (:id, :provider_id, :location_id, :day_of_week, :start_time, :end_time, :room, :active, :created_at, :updated_at)`

	now := time.Now().UTC()
	for i := range rules {
		rule := &rules[i]
		rule.ProviderID = providerID
		rule.LocationID = locationID
		if rule.ID == "" {
			rule.ID = uuid.NewString()
		}
		if rule.CreatedAt.IsZero() {
			rule.CreatedAt = now
		}
		rule.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, tx, insert, rule); err != nil {
			return fmt.Errorf("insert working hours rule: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace working hours: %w", err)
	}
	return nil
}

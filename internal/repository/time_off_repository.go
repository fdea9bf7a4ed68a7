package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
)

// TimeOffRepository manages provider time-off periods.
type TimeOffRepository struct {
	db *sqlx.DB
}

// NewTimeOffRepository constructs a TimeOffRepository.
func NewTimeOffRepository(db *sqlx.DB) *TimeOffRepository {
	return &TimeOffRepository{db: db}
}

// ListOverlapping returns time-off periods intersecting [from, to) for the
// provider, ordered by start.
func (r *TimeOffRepository) ListOverlapping(ctx context.Context, providerID string, from, to time.Time) ([]models.TimeOffPeriod, error) {
	const query = `SELECT id, provider_id, start_time, end_time, all_day, reason, created_at
FROM time_off_periods
WHERE provider_id = $1 AND start_time < $3 AND end_time > $2
ORDER BY start_time ASC`
	periods := []models.TimeOffPeriod{}
	if err := r.db.SelectContext(ctx, &periods, query, providerID, from, to); err != nil {
		return nil, fmt.Errorf("list time off periods: %w", err)
	}
	return periods, nil
}

// Create inserts a new time-off period.
func (r *TimeOffRepository) Create(ctx context.Context, period *models.TimeOffPeriod) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	if period.CreatedAt.IsZero() {
		period.CreatedAt = time.Now().UTC()
	}

	const query = `
INSERT INTO time_off_periods (id, provider_id, start_time, end_time, all_day, reason, created_at)
VALUES (:id, :provider_id, :start_time, :end_time, :all_day, :reason, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.db, query, period); err != nil {
		return fmt.Errorf("create time off period: %w", err)
	}
	return nil
}

// FindByID returns the period or nil when the id does not resolve.
func (r *TimeOffRepository) FindByID(ctx context.Context, id string) (*models.TimeOffPeriod, error) {
	const query = `SELECT id, provider_id, start_time, end_time, all_day, reason, created_at
FROM time_off_periods WHERE id = $1`
	var period models.TimeOffPeriod
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find time off period %s: %w", id, err)
	}
	return &period, nil
}

// Delete removes a time-off period. Reports whether a row was removed.
func (r *TimeOffRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_off_periods WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete time off period %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete time off period %s: %w", id, err)
	}
	return affected > 0, nil
}

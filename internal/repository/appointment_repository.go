package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
)

const appointmentColumns = "id, provider_id, location_id, patient_id, start_time, end_time, status, notes, created_at, updated_at"

// AppointmentRepository manages persistence for appointments.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs an AppointmentRepository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// BeginTxx opens a transaction for the check-then-book sequence.
func (r *AppointmentRepository) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, opts)
}

func (r *AppointmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListBlocking returns appointments in calendar-occupying statuses
// (scheduled, confirmed) overlapping [from, to), ordered by start.
func (r *AppointmentRepository) ListBlocking(ctx context.Context, providerID string, from, to time.Time) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments
WHERE provider_id = $1 AND status IN ('scheduled', 'confirmed')
  AND start_time < $3 AND end_time > $2
ORDER BY start_time ASC`, appointmentColumns)
	appointments := []models.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, providerID, from, to); err != nil {
		return nil, fmt.Errorf("list blocking appointments: %w", err)
	}
	return appointments, nil
}

// ListBlockingForUpdate is ListBlocking with row locks, run inside the
// booking transaction so two concurrent bookings for the same provider
// cannot both pass the conflict check against a stale snapshot.
func (r *AppointmentRepository) ListBlockingForUpdate(ctx context.Context, exec sqlx.ExtContext, providerID string, from, to time.Time) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments
WHERE provider_id = $1 AND status IN ('scheduled', 'confirmed')
  AND start_time < $3 AND end_time > $2
ORDER BY start_time ASC
FOR UPDATE`, appointmentColumns)
	appointments := []models.Appointment{}
	if err := sqlx.SelectContext(ctx, r.exec(exec), &appointments, query, providerID, from, to); err != nil {
		return nil, fmt.Errorf("lock blocking appointments: %w", err)
	}
	return appointments, nil
}

// Create inserts a new appointment, optionally inside a transaction.
func (r *AppointmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, appt *models.Appointment) error {
	now := time.Now().UTC()
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now

	const query = `
INSERT INTO appointments (id, provider_id, location_id, patient_id, start_time, end_time, status, notes, created_at, updated_at)
VALUES (:id, :provider_id, :location_id, :patient_id, :start_time, :end_time, :status, :notes, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, appt); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// FindByID returns the appointment or nil when the id does not resolve.
func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)
	var appt models.Appointment
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find appointment %s: %w", id, err)
	}
	return &appt, nil
}

// UpdateStatus moves the appointment to a new lifecycle state.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	const query = `UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update appointment %s status: %w", id, err)
	}
	return nil
}

// List returns appointments matching filters along with total count.
func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	base := "FROM appointments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.ProviderID != "" {
		conditions = append(conditions, fmt.Sprintf("provider_id = $%d", len(args)+1))
		args = append(args, filter.ProviderID)
	}
	if filter.LocationID != "" {
		conditions = append(conditions, fmt.Sprintf("location_id = $%d", len(args)+1))
		args = append(args, filter.LocationID)
	}
	if filter.PatientID != "" {
		conditions = append(conditions, fmt.Sprintf("patient_id = $%d", len(args)+1))
		args = append(args, filter.PatientID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("end_time > $%d", len(args)+1))
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("start_time < $%d", len(args)+1))
		args = append(args, filter.To)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY start_time ASC LIMIT %d OFFSET %d", appointmentColumns, base, size, offset)
	appointments := []models.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, total, nil
}

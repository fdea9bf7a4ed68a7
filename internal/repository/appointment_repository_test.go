package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

var appointmentCols = []string{"id", "provider_id", "location_id", "patient_id", "start_time", "end_time", "status", "notes", "created_at", "updated_at"}

func TestAppointmentRepositoryListBlocking(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	rows := sqlmock.NewRows(appointmentCols).
		AddRow("appt-1", "prov-1", "loc-1", "pat-1", from.Add(9*time.Hour), from.Add(9*time.Hour+30*time.Minute), "scheduled", "", from, from)
	mock.ExpectQuery("SELECT id, provider_id, location_id, patient_id").
		WithArgs("prov-1", from, to).
		WillReturnRows(rows)

	appointments, err := repo.ListBlocking(context.Background(), "prov-1", from, to)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "appt-1", appointments[0].ID)
	assert.Equal(t, models.StatusScheduled, appointments[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectExec("INSERT INTO appointments").
		WillReturnResult(sqlmock.NewResult(1, 1))

	appt := &models.Appointment{
		ProviderID: "prov-1",
		LocationID: "loc-1",
		PatientID:  "pat-1",
		StartTime:  time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
		Status:     models.StatusScheduled,
	}
	require.NoError(t, repo.Create(context.Background(), nil, appt))
	assert.NotEmpty(t, appt.ID, "a missing id is generated on insert")
	assert.False(t, appt.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery("SELECT id, provider_id, location_id, patient_id").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(appointmentCols))

	appt, err := repo.FindByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, appt, "unknown ids resolve to nil, not an error")
}

func TestAppointmentRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs("appt-1", models.StatusConfirmed, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "appt-1", models.StatusConfirmed))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM appointments`).
		WithArgs("prov-1", "scheduled").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now().UTC()
	rows := sqlmock.NewRows(appointmentCols).
		AddRow("appt-1", "prov-1", "loc-1", "pat-1", now, now.Add(30*time.Minute), "scheduled", "", now, now)
	mock.ExpectQuery("SELECT id, provider_id, location_id, patient_id").
		WithArgs("prov-1", "scheduled").
		WillReturnRows(rows)

	appointments, total, err := repo.List(context.Background(), models.AppointmentFilter{
		ProviderID: "prov-1",
		Status:     models.StatusScheduled,
		Page:       1,
		PageSize:   20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, appointments, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryListBlockingForUpdateInTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	from := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	to := from.Add(30 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("prov-1", from, to).
		WillReturnRows(sqlmock.NewRows(appointmentCols))
	mock.ExpectCommit()

	tx, err := repo.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	appointments, err := repo.ListBlockingForUpdate(context.Background(), tx, "prov-1", from, to)
	require.NoError(t, err)
	assert.Empty(t, appointments)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-scheduling-api/internal/models"
)

var workingHoursCols = []string{"id", "provider_id", "location_id", "day_of_week", "start_time", "end_time", "room", "active", "created_at", "updated_at"}

func TestWorkingHoursRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkingHoursRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(workingHoursCols).
		AddRow("wh-1", "prov-1", "loc-1", 1, "09:00", "12:00", "", true, now, now).
		AddRow("wh-2", "prov-1", "loc-1", 1, "13:00", "17:00", "", true, now, now)
	mock.ExpectQuery("SELECT id, provider_id, location_id, day_of_week").
		WithArgs("prov-1", "loc-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	rules, err := repo.ListActive(context.Background(), "prov-1", "loc-1", []int{1})
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "09:00", rules[0].StartTime)
	assert.Equal(t, 1, rules[0].DayOfWeek)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkingHoursRepositoryListActiveAllWeekdays(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkingHoursRepository(db)

	mock.ExpectQuery("SELECT id, provider_id, location_id, day_of_week").
		WithArgs("prov-1", "loc-1").
		WillReturnRows(sqlmock.NewRows(workingHoursCols))

	rules, err := repo.ListActive(context.Background(), "prov-1", "loc-1", nil)
	require.NoError(t, err)
	assert.Empty(t, rules)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkingHoursRepositoryReplace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkingHoursRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM working_hours_rules").
		WithArgs("prov-1", "loc-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO working_hours_rules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO working_hours_rules").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rules := []models.WorkingHoursRule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
		{DayOfWeek: 1, StartTime: "13:00", EndTime: "17:00", Active: true},
	}
	require.NoError(t, repo.Replace(context.Background(), "prov-1", "loc-1", rules))
	assert.NotEmpty(t, rules[0].ID, "missing ids are generated on insert")
	assert.Equal(t, "prov-1", rules[0].ProviderID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkingHoursRepositoryReplaceEmptyClearsSchedule(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkingHoursRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM working_hours_rules").
		WithArgs("prov-1", "loc-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Replace(context.Background(), "prov-1", "loc-1", nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

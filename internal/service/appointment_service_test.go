package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-scheduling-api/internal/dto"
	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
)

// appointmentStoreStub keeps appointments in memory but drives BeginTxx off
// a sqlmock connection so the booking transaction shape is exercised.
type appointmentStoreStub struct {
	db       *sqlx.DB
	blocking []models.Appointment
	byID     map[string]models.Appointment
	created  []models.Appointment
	statuses map[string]models.AppointmentStatus
}

func newAppointmentStoreStub(t *testing.T) (*appointmentStoreStub, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	stub := &appointmentStoreStub{
		db:       sqlxDB,
		byID:     map[string]models.Appointment{},
		statuses: map[string]models.AppointmentStatus{},
	}
	return stub, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func (s *appointmentStoreStub) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return s.db.BeginTxx(ctx, opts)
}

func (s *appointmentStoreStub) ListBlockingForUpdate(ctx context.Context, exec sqlx.ExtContext, providerID string, from, to time.Time) ([]models.Appointment, error) {
	return s.blocking, nil
}

func (s *appointmentStoreStub) Create(ctx context.Context, exec sqlx.ExtContext, appt *models.Appointment) error {
	appt.ID = "appt-new"
	s.created = append(s.created, *appt)
	return nil
}

func (s *appointmentStoreStub) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	if appt, ok := s.byID[id]; ok {
		return &appt, nil
	}
	return nil, nil
}

func (s *appointmentStoreStub) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	s.statuses[id] = status
	return nil
}

func (s *appointmentStoreStub) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	return s.blocking, len(s.blocking), nil
}

func bookingRequest() dto.CreateAppointmentRequest {
	return dto.CreateAppointmentRequest{
		ProviderID: "prov-1",
		LocationID: "loc-1",
		PatientID:  "pat-1",
		Start:      mondayAt(9, 0),
		End:        mondayAt(9, 30),
	}
}

func TestAppointmentCreateBooksFreeSlot(t *testing.T) {
	store, mock, cleanup := newAppointmentStoreStub(t)
	defer cleanup()
	mock.ExpectBegin()
	mock.ExpectCommit()

	loader := &constraintLoaderStub{constraints: splitShiftConstraints()}
	svc := NewAppointmentService(store, loader, NewConflictService(nil, nil), nil, nil, nil)

	appt, err := svc.Create(context.Background(), bookingRequest())
	require.NoError(t, err)
	require.NotNil(t, appt)
	assert.Equal(t, "appt-new", appt.ID)
	assert.Equal(t, models.StatusScheduled, appt.Status)
	require.Len(t, store.created, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreateRejectsCollision(t *testing.T) {
	store, mock, cleanup := newAppointmentStoreStub(t)
	defer cleanup()
	store.blocking = []models.Appointment{
		{ID: "appt-1", ProviderID: "prov-1", StartTime: mondayAt(9, 0), EndTime: mondayAt(9, 30), Status: models.StatusScheduled},
	}
	mock.ExpectBegin()
	mock.ExpectRollback()

	loader := &constraintLoaderStub{constraints: splitShiftConstraints()}
	svc := NewAppointmentService(store, loader, NewConflictService(nil, nil), nil, nil, nil)

	_, err := svc.Create(context.Background(), bookingRequest())
	require.Error(t, err)
	var conflict *BookingConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, models.ConflictExistingAppointment, conflict.Result.Kind)
	assert.Empty(t, store.created, "nothing is written when the booking conflicts")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreateRejectsOutsideWorkingHours(t *testing.T) {
	store, mock, cleanup := newAppointmentStoreStub(t)
	defer cleanup()
	mock.ExpectBegin()
	mock.ExpectRollback()

	loader := &constraintLoaderStub{constraints: splitShiftConstraints()}
	svc := NewAppointmentService(store, loader, NewConflictService(nil, nil), nil, nil, nil)

	req := bookingRequest()
	req.Start = mondayAt(8, 0)
	req.End = mondayAt(8, 30)
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	var conflict *BookingConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, models.ConflictOutsideWorkingHours, conflict.Result.Kind)
}

func TestAppointmentCreateInvalidInterval(t *testing.T) {
	store, _, cleanup := newAppointmentStoreStub(t)
	defer cleanup()

	svc := NewAppointmentService(store, &constraintLoaderStub{constraints: splitShiftConstraints()}, NewConflictService(nil, nil), nil, nil, nil)

	req := bookingRequest()
	req.End = req.Start
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErrors.FromError(err).Code)
}

func TestAppointmentCreateMissingFields(t *testing.T) {
	store, _, cleanup := newAppointmentStoreStub(t)
	defer cleanup()

	svc := NewAppointmentService(store, &constraintLoaderStub{constraints: splitShiftConstraints()}, NewConflictService(nil, nil), nil, nil, nil)

	req := bookingRequest()
	req.PatientID = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAppointmentUpdateStatusTransitions(t *testing.T) {
	store, _, cleanup := newAppointmentStoreStub(t)
	defer cleanup()
	store.byID["appt-1"] = models.Appointment{
		ID: "appt-1", ProviderID: "prov-1", Status: models.StatusScheduled,
		StartTime: mondayAt(9, 0), EndTime: mondayAt(9, 30),
	}

	svc := NewAppointmentService(store, &constraintLoaderStub{constraints: splitShiftConstraints()}, NewConflictService(nil, nil), nil, nil, nil)

	appt, err := svc.UpdateStatus(context.Background(), "appt-1", models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, appt.Status)
	assert.Equal(t, models.StatusConfirmed, store.statuses["appt-1"])
}

func TestAppointmentUpdateStatusRejectsIllegalTransition(t *testing.T) {
	store, _, cleanup := newAppointmentStoreStub(t)
	defer cleanup()
	store.byID["appt-1"] = models.Appointment{ID: "appt-1", Status: models.StatusCompleted}

	svc := NewAppointmentService(store, &constraintLoaderStub{constraints: splitShiftConstraints()}, NewConflictService(nil, nil), nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "appt-1", models.StatusScheduled)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAppointmentUpdateStatusUnknownAppointment(t *testing.T) {
	store, _, cleanup := newAppointmentStoreStub(t)
	defer cleanup()

	svc := NewAppointmentService(store, &constraintLoaderStub{constraints: splitShiftConstraints()}, NewConflictService(nil, nil), nil, nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "ghost", models.StatusConfirmed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

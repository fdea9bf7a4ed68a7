package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clinic-scheduling-api/internal/dto"
	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	"github.com/noah-isme/clinic-scheduling-api/internal/service"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
	"github.com/noah-isme/clinic-scheduling-api/pkg/response"
)

type appointmentService interface {
	Create(ctx context.Context, req dto.CreateAppointmentRequest) (*models.Appointment, error)
	Get(ctx context.Context, id string) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*models.Appointment, error)
}

type rescheduleService interface {
	Suggest(ctx context.Context, appointmentID string, maxSuggestions, horizonDays int) ([]models.TimeSlot, error)
}

// AppointmentHandler exposes booking and lifecycle endpoints.
type AppointmentHandler struct {
	appointments appointmentService
	reschedule   rescheduleService
}

// NewAppointmentHandler builds a new handler.
func NewAppointmentHandler(appointments appointmentService, reschedule rescheduleService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, reschedule: reschedule}
}

// Create godoc
// @Summary Book an appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAppointmentRequest true "Appointment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid appointment payload"))
		return
	}

	appt, err := h.appointments.Create(c.Request.Context(), req)
	if err != nil {
		var conflict *service.BookingConflictError
		if errors.As(err, &conflict) {
			response.Error(c, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("booking conflicts with %s", conflict.Result.Kind)))
			return
		}
		response.Error(c, err)
		return
	}
	response.Created(c, appt)
}

// Get godoc
// @Summary Get an appointment
// @Tags Appointments
// @Produce json
// @Param id path string true "Appointment id"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.appointments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appt, nil)
}

// List godoc
// @Summary List appointments
// @Tags Appointments
// @Produce json
// @Param providerId query string false "Provider id"
// @Param locationId query string false "Location id"
// @Param patientId query string false "Patient id"
// @Param status query string false "Lifecycle status"
// @Param from query string false "Range start"
// @Param to query string false "Range end"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	filter, err := appointmentFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	appointments, total, err := h.appointments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, appointments, pagination)
}

// UpdateStatus godoc
// @Summary Update appointment status
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment id"
// @Param payload body dto.UpdateAppointmentStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	appt, err := h.appointments.UpdateStatus(c.Request.Context(), c.Param("id"), models.AppointmentStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appt, nil)
}

// Suggestions godoc
// @Summary Suggest alternative slots for an appointment
// @Tags Appointments
// @Produce json
// @Param id path string true "Appointment id"
// @Param max query int false "Maximum suggestions"
// @Param horizonDays query int false "Search horizon in days"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id}/reschedule-suggestions [get]
func (h *AppointmentHandler) Suggestions(c *gin.Context) {
	var query dto.RescheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reschedule query"))
		return
	}

	slots, err := h.reschedule.Suggest(c.Request.Context(), c.Param("id"), query.Max, query.HorizonDays)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil, map[string]interface{}{"count": len(slots)})
}

func appointmentFilterFromQuery(c *gin.Context) (models.AppointmentFilter, error) {
	filter := models.AppointmentFilter{
		ProviderID: c.Query("providerId"),
		LocationID: c.Query("locationId"),
		PatientID:  c.Query("patientId"),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AppointmentStatus(raw)
		if !models.ValidStatus(status) {
			return filter, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", raw))
		}
		filter.Status = status
	}
	if raw := c.Query("from"); raw != "" {
		from, err := parseTimeParam(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid from: "+err.Error())
		}
		filter.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := parseTimeParam(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid to: "+err.Error())
		}
		filter.To = to
	}
	filter.Page = intQuery(c, "page", 1)
	filter.PageSize = intQuery(c, "pageSize", 20)
	return filter, nil
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil || v <= 0 {
		return fallback
	}
	return v
}

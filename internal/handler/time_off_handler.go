package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clinic-scheduling-api/internal/dto"
	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
	"github.com/noah-isme/clinic-scheduling-api/pkg/response"
)

type timeOffService interface {
	Create(ctx context.Context, providerID string, req dto.CreateTimeOffRequest) (*models.TimeOffPeriod, error)
	List(ctx context.Context, providerID string, dateRange models.DateRange) ([]models.TimeOffPeriod, error)
	Delete(ctx context.Context, id string) error
}

// TimeOffHandler manages blocked periods on a provider's calendar.
type TimeOffHandler struct {
	service timeOffService
}

// NewTimeOffHandler builds a new handler.
func NewTimeOffHandler(service timeOffService) *TimeOffHandler {
	return &TimeOffHandler{service: service}
}

// Create godoc
// @Summary Block a period on a provider's calendar
// @Tags TimeOff
// @Accept json
// @Produce json
// @Param providerId path string true "Provider id"
// @Param payload body dto.CreateTimeOffRequest true "Time off payload"
// @Success 201 {object} response.Envelope
// @Router /providers/{providerId}/time-off [post]
func (h *TimeOffHandler) Create(c *gin.Context) {
	var req dto.CreateTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid time off payload"))
		return
	}

	period, err := h.service.Create(c.Request.Context(), c.Param("providerId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, period)
}

// List godoc
// @Summary List blocked periods overlapping a range
// @Tags TimeOff
// @Produce json
// @Param providerId path string true "Provider id"
// @Param from query string true "Range start (RFC3339 or YYYY-MM-DD)"
// @Param to query string true "Range end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /providers/{providerId}/time-off [get]
func (h *TimeOffHandler) List(c *gin.Context) {
	dateRange, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}

	periods, err := h.service.List(c.Request.Context(), c.Param("providerId"), dateRange)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, periods, nil)
}

// Delete godoc
// @Summary Remove a blocked period
// @Tags TimeOff
// @Param id path string true "Time off id"
// @Success 204
// @Router /time-off/{id} [delete]
func (h *TimeOffHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

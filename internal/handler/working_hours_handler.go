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

type workingHoursService interface {
	List(ctx context.Context, providerID, locationID string) ([]models.WorkingHoursRule, error)
	Replace(ctx context.Context, providerID, locationID string, req dto.ReplaceWorkingHoursRequest) ([]models.WorkingHoursRule, error)
}

// WorkingHoursHandler manages the recurring weekly schedule for a provider.
type WorkingHoursHandler struct {
	service workingHoursService
}

// NewWorkingHoursHandler builds a new handler.
func NewWorkingHoursHandler(service workingHoursService) *WorkingHoursHandler {
	return &WorkingHoursHandler{service: service}
}

// List godoc
// @Summary List working hours rules
// @Tags WorkingHours
// @Produce json
// @Param providerId path string true "Provider id"
// @Param locationId path string true "Location id"
// @Success 200 {object} response.Envelope
// @Router /providers/{providerId}/locations/{locationId}/working-hours [get]
func (h *WorkingHoursHandler) List(c *gin.Context) {
	rules, err := h.service.List(c.Request.Context(), c.Param("providerId"), c.Param("locationId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// Replace godoc
// @Summary Replace working hours rules
// @Tags WorkingHours
// @Accept json
// @Produce json
// @Param providerId path string true "Provider id"
// @Param locationId path string true "Location id"
// @Param payload body dto.ReplaceWorkingHoursRequest true "Rule set"
// @Success 200 {object} response.Envelope
// @Router /providers/{providerId}/locations/{locationId}/working-hours [put]
func (h *WorkingHoursHandler) Replace(c *gin.Context) {
	var req dto.ReplaceWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid working hours payload"))
		return
	}

	rules, err := h.service.Replace(c.Request.Context(), c.Param("providerId"), c.Param("locationId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

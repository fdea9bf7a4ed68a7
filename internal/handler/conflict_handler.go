package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clinic-scheduling-api/internal/dto"
	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
	"github.com/noah-isme/clinic-scheduling-api/pkg/response"
)

type constraintService interface {
	Load(ctx context.Context, providerID, locationID string, dateRange models.DateRange) (*models.ConstraintSet, error)
}

type conflictService interface {
	Check(constraints *models.ConstraintSet, providerID string, start, end time.Time, excludeAppointmentID string) (models.ConflictResult, error)
}

// ConflictHandler answers whether a proposed interval can be booked.
type ConflictHandler struct {
	constraints constraintService
	conflicts   conflictService
}

// NewConflictHandler builds a new handler.
func NewConflictHandler(constraints constraintService, conflicts conflictService) *ConflictHandler {
	return &ConflictHandler{constraints: constraints, conflicts: conflicts}
}

// Check godoc
// @Summary Check a proposed interval for conflicts
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body dto.CheckConflictRequest true "Proposed interval"
// @Success 200 {object} response.Envelope
// @Router /scheduling/check-conflict [post]
func (h *ConflictHandler) Check(c *gin.Context) {
	var req dto.CheckConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conflict payload"))
		return
	}
	if !req.Start.Before(req.End) {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidRange, "start must be before end"))
		return
	}

	dateRange := models.DateRange{From: req.Start, To: req.End}
	constraints, err := h.constraints.Load(c.Request.Context(), req.ProviderID, req.LocationID, dateRange)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.conflicts.Check(constraints, req.ProviderID, req.Start, req.End, req.ExcludeAppointmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

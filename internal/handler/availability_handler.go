package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clinic-scheduling-api/internal/dto"
	"github.com/noah-isme/clinic-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/clinic-scheduling-api/pkg/errors"
	"github.com/noah-isme/clinic-scheduling-api/pkg/export"
	"github.com/noah-isme/clinic-scheduling-api/pkg/response"
)

type availabilityService interface {
	ListSlots(ctx context.Context, providerID, locationID string, dateRange models.DateRange, duration, granularity time.Duration) ([]models.TimeSlot, error)
	DefaultGranularity() time.Duration
}

// AvailabilityHandler exposes availability listing and export endpoints.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler builds a new handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// List godoc
// @Summary List open slots for a provider
// @Tags Availability
// @Produce json
// @Param providerId path string true "Provider id"
// @Param locationId query string true "Location id"
// @Param from query string true "Range start (RFC3339 or YYYY-MM-DD)"
// @Param to query string true "Range end (RFC3339 or YYYY-MM-DD)"
// @Param duration query string true "Slot duration, e.g. 30m"
// @Param granularity query string false "Start-time step, e.g. 15m"
// @Success 200 {object} response.Envelope
// @Router /providers/{providerId}/availability [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	slots, err := h.listSlots(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil, map[string]interface{}{"count": len(slots)})
}

// Export godoc
// @Summary Export open slots as CSV or PDF
// @Tags Availability
// @Produce text/csv,application/pdf
// @Param providerId path string true "Provider id"
// @Param locationId query string true "Location id"
// @Param from query string true "Range start (RFC3339 or YYYY-MM-DD)"
// @Param to query string true "Range end (RFC3339 or YYYY-MM-DD)"
// @Param duration query string true "Slot duration, e.g. 30m"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} byte
// @Router /providers/{providerId}/availability/export [get]
func (h *AvailabilityHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	slots, err := h.listSlots(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	table := export.Table{
		Title:   fmt.Sprintf("Availability for provider %s", c.Param("providerId")),
		Headers: []string{"Start", "End", "Location", "Room"},
	}
	for _, slot := range slots {
		table.Rows = append(table.Rows, []string{
			slot.Start.Format(time.RFC3339),
			slot.End.Format(time.RFC3339),
			slot.LocationID,
			slot.Room,
		})
	}

	payload, err := export.Render(format, table)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render export"))
		return
	}

	filename := fmt.Sprintf("availability-%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), payload)
}

func (h *AvailabilityHandler) listSlots(c *gin.Context) ([]models.TimeSlot, error) {
	var query dto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability query")
	}
	if query.LocationID == "" || query.From == "" || query.To == "" || query.Duration == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "locationId, from, to and duration are required")
	}

	dateRange, err := parseDateRange(query.From, query.To)
	if err != nil {
		return nil, err
	}
	duration, err := parseDurationParam(query.Duration, 0)
	if err != nil {
		return nil, err
	}
	granularity, err := parseDurationParam(query.Granularity, h.service.DefaultGranularity())
	if err != nil {
		return nil, err
	}

	return h.service.ListSlots(c.Request.Context(), c.Param("providerId"), query.LocationID, dateRange, duration, granularity)
}

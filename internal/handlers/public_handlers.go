package handlers

import (
	"net/http"
	"strconv"

	"fairway/internal/common"
	"fairway/internal/services"

	"github.com/labstack/echo/v4"
)

// PublicHandlers serves the anonymous tee sheet and closure calendar.
type PublicHandlers struct {
	availability services.AvailabilityService
	closures     services.ClosureService
}

func NewPublicHandlers(availability services.AvailabilityService, closures services.ClosureService) *PublicHandlers {
	return &PublicHandlers{availability: availability, closures: closures}
}

// ListTeeTimes handles GET /tee-times?date=YYYY-MM-DD
func (h *PublicHandlers) ListTeeTimes(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	date, err := common.ParseDate(c.QueryParam("date"), "date")
	if err != nil {
		return common.SendValidationError(c, "date", common.PublicMessage(err, "invalid date"))
	}

	result, err := h.availability.AvailableSlots(ctx, tenantID, date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListClosedDates handles GET /closures?year=&month=
func (h *PublicHandlers) ListClosedDates(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return common.SendValidationError(c, "year", "year must be a number")
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return common.SendValidationError(c, "month", "month must be a number")
	}

	dates, err := h.closures.ClosedDatesInMonth(ctx, tenantID, year, month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"year":         year,
		"month":        month,
		"closed_dates": dates,
	})
}

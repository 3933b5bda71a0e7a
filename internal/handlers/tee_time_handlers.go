package handlers

import (
	"net/http"
	"strconv"

	"fairway/internal/common"
	"fairway/internal/jobs"
	"fairway/internal/models"
	"fairway/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// TeeTimeHandlers handles the admin tee sheet
type TeeTimeHandlers struct {
	teeTimeService services.TeeTimeService
	// enqueuer is nil when no worker queue is configured; generation then
	// always runs inline.
	enqueuer jobs.Enqueuer
	maxRetry int
}

func NewTeeTimeHandlers(teeTimeService services.TeeTimeService, enqueuer jobs.Enqueuer, maxRetry int) *TeeTimeHandlers {
	return &TeeTimeHandlers{
		teeTimeService: teeTimeService,
		enqueuer:       enqueuer,
		maxRetry:       maxRetry,
	}
}

// ListTeeTimes handles GET /admin/tee-times?from=&to=
func (h *TeeTimeHandlers) ListTeeTimes(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	from, err := common.ParseDate(c.QueryParam("from"), "from")
	if err != nil {
		return common.SendValidationError(c, "from", common.PublicMessage(err, "invalid date"))
	}
	to := from
	if raw := c.QueryParam("to"); raw != "" {
		if to, err = common.ParseDate(raw, "to"); err != nil {
			return common.SendValidationError(c, "to", common.PublicMessage(err, "invalid date"))
		}
	}

	slots, err := h.teeTimeService.ListRange(ctx, tenantID, models.SlotRangeFilter{From: from, To: to})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tee_times": slots,
	})
}

// CreateTeeTime handles POST /admin/tee-times
func (h *TeeTimeHandlers) CreateTeeTime(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	var req models.CreateSlotRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	slot, err := h.teeTimeService.Create(ctx, tenantID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, slot)
}

// GenerateTeeTimes handles POST /admin/tee-times/bulk. With ?async=true the
// work is queued and 202 is returned with the task id.
func (h *TeeTimeHandlers) GenerateTeeTimes(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	var req services.GenerateSlotsRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	async, _ := strconv.ParseBool(c.QueryParam("async"))
	if async && h.enqueuer != nil {
		// Reject bad ranges now instead of in the worker.
		if _, err := services.PlanSlots(req); err != nil {
			return respondError(c, err)
		}
		task, err := jobs.NewGenerateSlotsTask(tenantID, req, h.maxRetry)
		if err != nil {
			return respondError(c, err)
		}
		info, err := h.enqueuer.EnqueueContext(ctx, task)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to enqueue slot generation")
			return respondError(c, common.Retryable(err))
		}
		return c.JSON(http.StatusAccepted, map[string]interface{}{
			"task_id": info.ID,
			"queue":   info.Queue,
		})
	}

	count, err := h.teeTimeService.Generate(ctx, tenantID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": count,
	})
}

// UpdateTeeTime handles PUT /admin/tee-times/:id
func (h *TeeTimeHandlers) UpdateTeeTime(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", common.PublicMessage(err, "invalid id"))
	}

	var req models.UpdateSlotRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	slot, err := h.teeTimeService.Update(ctx, tenantID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, slot)
}

// DeleteTeeTime handles DELETE /admin/tee-times/:id
func (h *TeeTimeHandlers) DeleteTeeTime(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", common.PublicMessage(err, "invalid id"))
	}

	if err := h.teeTimeService.Delete(ctx, tenantID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/services"

	"github.com/labstack/echo/v4"
)

// ClosureHandlers handles admin course closure requests
type ClosureHandlers struct {
	closureService services.ClosureService
}

func NewClosureHandlers(closureService services.ClosureService) *ClosureHandlers {
	return &ClosureHandlers{closureService: closureService}
}

// ListClosures handles GET /admin/closures
func (h *ClosureHandlers) ListClosures(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	closures, err := h.closureService.ListUpcoming(ctx, tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"closures": closures,
	})
}

// UpsertClosure handles POST /admin/closures; closing an already closed date
// replaces its reason.
func (h *ClosureHandlers) UpsertClosure(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	var req models.ClosureRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	closure, err := h.closureService.Upsert(ctx, tenantID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, closure)
}

// DeleteClosure handles DELETE /admin/closures/:id
func (h *ClosureHandlers) DeleteClosure(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", common.PublicMessage(err, "invalid id"))
	}

	if err := h.closureService.Delete(ctx, tenantID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handlers

import (
	"errors"
	"net/http"

	"fairway/internal/common"
	"fairway/internal/middleware"
	"fairway/internal/models"
	"fairway/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers serves the resolved tenant's public profile and its settings.
type TenantHandlers struct {
	tenantService services.TenantService
	courseService services.CourseService
}

// NewTenantHandlers creates a new tenant handlers instance
func NewTenantHandlers(tenantService services.TenantService, courseService services.CourseService) *TenantHandlers {
	return &TenantHandlers{
		tenantService: tenantService,
		courseService: courseService,
	}
}

// GetPublicTenant returns the tenant for the request host together with its course.
func (h *TenantHandlers) GetPublicTenant(c echo.Context) error {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	resp := models.PublicTenant{Tenant: tenant}
	course, err := h.courseService.Get(c.Request().Context(), tenant.ID)
	switch {
	case err == nil:
		resp.Course = course
	case !errors.Is(err, common.ErrNotFound):
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// UpdateSettings handles the admin branding and contact settings update
func (h *TenantHandlers) UpdateSettings(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	var req models.TenantSettingsRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	tenant, err := h.tenantService.UpdateSettings(ctx, tenantID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

package handlers

import (
	"net/http"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/services"

	"github.com/labstack/echo/v4"
)

// PricingRuleHandlers handles admin pricing rule requests
type PricingRuleHandlers struct {
	ruleService services.PricingRuleService
}

func NewPricingRuleHandlers(ruleService services.PricingRuleService) *PricingRuleHandlers {
	return &PricingRuleHandlers{ruleService: ruleService}
}

// ListRules handles GET /admin/pricing-rules
func (h *PricingRuleHandlers) ListRules(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	rules, err := h.ruleService.List(ctx, tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"pricing_rules": rules,
	})
}

// CreateRule handles POST /admin/pricing-rules
func (h *PricingRuleHandlers) CreateRule(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	var req models.PricingRuleRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	rule, err := h.ruleService.Create(ctx, tenantID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, rule)
}

// UpdateRule handles PUT /admin/pricing-rules/:id
func (h *PricingRuleHandlers) UpdateRule(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", common.PublicMessage(err, "invalid id"))
	}

	var req models.PricingRuleRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	rule, err := h.ruleService.Update(ctx, tenantID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rule)
}

// DeleteRule handles DELETE /admin/pricing-rules/:id
func (h *PricingRuleHandlers) DeleteRule(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", common.PublicMessage(err, "invalid id"))
	}

	if err := h.ruleService.Delete(ctx, tenantID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PreviewPrice handles GET /admin/pricing-rules/preview?date=YYYY-MM-DD
func (h *PricingRuleHandlers) PreviewPrice(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	price, err := h.ruleService.Preview(ctx, tenantID, c.QueryParam("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, price)
}

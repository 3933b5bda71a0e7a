package handlers

import (
	"net/http"

	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Register creates a golfer account on the resolved tenant and signs it in.
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	resp, err := h.authService.Register(ctx, tenantID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	if req.Email == "" || req.Password == "" {
		return common.SendValidationError(c, "email", "email and password are required")
	}

	resp, err := h.authService.Login(ctx, tenantID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Me returns the signed-in user.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.authService.Me(ctx, tenantID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword replaces the user's password and clears any forced-change flag.
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	if err := h.authService.ChangePassword(ctx, tenantID, userID, &req); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

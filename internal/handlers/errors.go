package handlers

import (
	"errors"
	"net/http"

	"fairway/internal/common"
	"fairway/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// retryAfterSeconds is sent with 503 responses for contended bookings.
const retryAfterSeconds = "1"

// respondError renders a service error as the standard error envelope.
func respondError(c echo.Context, err error) error {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	message := "An unexpected error occurred"

	switch {
	case errors.Is(err, common.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, common.ErrInvalidInput):
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, common.ErrCapacityExceeded):
		status, code = http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED"
	case errors.Is(err, common.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
	case errors.Is(err, common.ErrRetryable):
		status, code = http.StatusServiceUnavailable, "RETRY"
		c.Response().Header().Set("Retry-After", retryAfterSeconds)
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("INVALID_CREDENTIALS", err.Error(), nil))
	}

	if status == http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("request failed")
	} else {
		message = common.PublicMessage(err, http.StatusText(status))
	}
	return c.JSON(status, common.CreateErrorResponse(code, message, nil))
}

// HTTPErrorHandler renders errors that escape handlers, including echo's own
// routing and middleware errors, in the standard envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		code := "HTTP_ERROR"
		switch he.Code {
		case http.StatusUnauthorized:
			code = "UNAUTHORIZED"
		case http.StatusNotFound:
			code = "NOT_FOUND"
		case http.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case http.StatusRequestEntityTooLarge:
			code = "PAYLOAD_TOO_LARGE"
		}
		if err := c.JSON(he.Code, common.CreateErrorResponse(code, message, nil)); err != nil {
			zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("failed to write error response")
		}
		return
	}

	if err := respondError(c, err); err != nil {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("failed to write error response")
	}
}

// bindError is returned when a request body cannot be decoded.
func bindError(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, common.CreateErrorResponse("VALIDATION_ERROR", "Invalid request format", nil))
}

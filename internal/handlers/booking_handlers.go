package handlers

import (
	"net/http"
	"strconv"
	"time"

	"fairway/internal/caching"
	"fairway/internal/common"
	"fairway/internal/models"
	"fairway/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const guestBookingWindow = time.Hour

// BookingHandlers handles golfer and admin booking requests
type BookingHandlers struct {
	bookingService services.BookingService
	cache          caching.CacheService
	guestLimit     int
}

// NewBookingHandlers creates booking handlers. A nil cache or a non-positive
// guestLimit disables guest rate limiting.
func NewBookingHandlers(bookingService services.BookingService, cache caching.CacheService, guestLimit int) *BookingHandlers {
	return &BookingHandlers{
		bookingService: bookingService,
		cache:          cache,
		guestLimit:     guestLimit,
	}
}

// CreateBooking books a tee time for the signed-in golfer or for a guest.
func (h *BookingHandlers) CreateBooking(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	var req models.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}
	req.UserID = nil

	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		req.UserID = &userID
	} else if h.guestLimited(c) {
		return c.JSON(http.StatusTooManyRequests, common.CreateErrorResponse("RATE_LIMITED",
			"Too many guest bookings from this address, please try again later", nil))
	}

	booking, err := h.bookingService.Create(ctx, tenantID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandlers) guestLimited(c echo.Context) bool {
	if h.cache == nil || h.guestLimit <= 0 {
		return false
	}
	ctx := c.Request().Context()
	limited, err := h.cache.IsRateLimited(ctx, "guest_booking:"+c.RealIP(), h.guestLimit, guestBookingWindow)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("guest rate limit check failed")
		return false
	}
	return limited
}

// ListMyBookings returns the signed-in golfer's bookings.
func (h *BookingHandlers) ListMyBookings(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	bookings, err := h.bookingService.ListForUser(ctx, tenantID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"bookings": bookings,
	})
}

// ListBookings is the admin listing, filterable by date and status.
func (h *BookingHandlers) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}

	var filter models.BookingFilter
	if raw := c.QueryParam("date"); raw != "" {
		date, err := common.ParseDate(raw, "date")
		if err != nil {
			return common.SendValidationError(c, "date", common.PublicMessage(err, "invalid date"))
		}
		filter.Date = &date
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := models.BookingStatus(raw)
		if !status.Valid() {
			return common.SendValidationError(c, "status", "status must be one of pending, confirmed, cancelled, completed")
		}
		filter.Status = &status
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	filter.Limit, filter.Offset = common.ValidatePaginationParams(limit, offset)

	bookings, err := h.bookingService.ListForAdmin(ctx, tenantID, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// UpdateBookingStatus applies an admin status change.
func (h *BookingHandlers) UpdateBookingStatus(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendNotFoundError(c, "Course")
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", common.PublicMessage(err, "invalid id"))
	}

	var req models.UpdateBookingStatusRequest
	if err := c.Bind(&req); err != nil {
		return bindError(c)
	}

	change, err := h.bookingService.UpdateStatus(ctx, tenantID, id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, change)
}

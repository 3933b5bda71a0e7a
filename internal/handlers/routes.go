package handlers

import (
	"fairway/internal/middleware"
	"fairway/internal/models"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Routes bundles every handler group mounted on the server.
type Routes struct {
	Tenants  middleware.TenantResolver
	JWT      middleware.JWTOptions
	Version  *middleware.VersionMiddleware
	Health   *HealthHandlers
	Tenant   *TenantHandlers
	Public   *PublicHandlers
	Auth     *AuthHandlers
	Bookings *BookingHandlers
	Courses  *CourseHandlers
	TeeTimes *TeeTimeHandlers
	Closures *ClosureHandlers
	Pricing  *PricingRuleHandlers
}

// Register mounts the health probes, the swagger UI and the tenant scoped /v1 API.
func (r *Routes) Register(e *echo.Echo) {
	// Health endpoints (no tenant, no auth)
	e.GET("/health", r.Health.HealthCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)
	e.GET("/health/live", r.Health.LivenessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	required := r.JWT
	required.Optional = false
	optional := r.JWT
	optional.Optional = true

	v1 := e.Group("/v1", r.Version.APIVersionResolver(), r.Version.VersionHeader("v1"), middleware.ResolveTenant(r.Tenants))

	// Public routes
	v1.GET("/tenant", r.Tenant.GetPublicTenant)
	v1.GET("/tee-times", r.Public.ListTeeTimes)
	v1.GET("/closures", r.Public.ListClosedDates)

	// Authentication routes
	auth := v1.Group("/auth")
	auth.POST("/register", r.Auth.Register)
	auth.POST("/login", r.Auth.Login)
	auth.GET("/me", r.Auth.Me, middleware.JWT(required))
	auth.PUT("/password", r.Auth.ChangePassword, middleware.JWT(required))

	// Guests may book without a token; a token, when sent, must be valid.
	v1.POST("/bookings", r.Bookings.CreateBooking, middleware.JWT(optional))
	v1.GET("/bookings/my", r.Bookings.ListMyBookings, middleware.JWT(required))

	admin := v1.Group("/admin", middleware.JWT(required), middleware.RequireRole(models.RoleAdmin))

	admin.GET("/course", r.Courses.GetCourse)
	admin.PUT("/course", r.Courses.UpdateCourse)
	admin.POST("/course/images", r.Courses.UploadImage)
	admin.DELETE("/course/images", r.Courses.DeleteImage)
	admin.PUT("/settings", r.Tenant.UpdateSettings)

	admin.GET("/tee-times", r.TeeTimes.ListTeeTimes)
	admin.POST("/tee-times", r.TeeTimes.CreateTeeTime)
	admin.POST("/tee-times/bulk", r.TeeTimes.GenerateTeeTimes)
	admin.PUT("/tee-times/:id", r.TeeTimes.UpdateTeeTime)
	admin.DELETE("/tee-times/:id", r.TeeTimes.DeleteTeeTime)

	admin.GET("/bookings", r.Bookings.ListBookings)
	admin.PUT("/bookings/:id/status", r.Bookings.UpdateBookingStatus)

	admin.GET("/closures", r.Closures.ListClosures)
	admin.POST("/closures", r.Closures.UpsertClosure)
	admin.DELETE("/closures/:id", r.Closures.DeleteClosure)

	admin.GET("/pricing-rules", r.Pricing.ListRules)
	admin.POST("/pricing-rules", r.Pricing.CreateRule)
	admin.GET("/pricing-rules/preview", r.Pricing.PreviewPrice)
	admin.PUT("/pricing-rules/:id", r.Pricing.UpdateRule)
	admin.DELETE("/pricing-rules/:id", r.Pricing.DeleteRule)
}

package middleware

import (
	"context"
	"errors"

	"fairway/internal/common"
	"fairway/internal/logging"
	"fairway/internal/models"

	"github.com/labstack/echo/v4"
)

const tenantContextKey = "tenant"

type TenantResolver interface {
	ResolveHost(ctx context.Context, host string) (*models.Tenant, error)
}

// ResolveTenant maps the request host to an active tenant and stores its id in
// the request context. Unknown or inactive hosts get a 404.
func ResolveTenant(resolver TenantResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			tenant, err := resolver.ResolveHost(req.Context(), req.Host)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.SendNotFoundError(c, "Course")
				}
				return err
			}

			c.Set(tenantContextKey, tenant)
			c.SetRequest(req.WithContext(common.WithTenantID(req.Context(), tenant.ID)))
			logging.WithTenant(c, tenant.ID.String())
			return next(c)
		}
	}
}

// TenantFromContext returns the tenant resolved for this request.
func TenantFromContext(c echo.Context) (*models.Tenant, bool) {
	tenant, ok := c.Get(tenantContextKey).(*models.Tenant)
	return tenant, ok
}

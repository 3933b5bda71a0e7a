package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fairway/internal/common"
	"fairway/internal/services"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// JWTOptions configures bearer token authentication.
type JWTOptions struct {
	// Secret verifies HS256 tokens issued by this service.
	Secret string
	// JWKS, when set, verifies tokens carrying a "kid" header.
	JWKS *keyfunc.JWKS
	// Optional lets requests without a token through anonymously. Invalid
	// tokens are still rejected.
	Optional bool
}

// LoadJWKS fetches a remote key set and refreshes it in the background.
func LoadJWKS(url string) (*keyfunc.JWKS, error) {
	return keyfunc.Get(url, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warn().Err(err).Msg("jwks refresh failed")
		},
	})
}

func (o JWTOptions) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Header["kid"]; ok && o.JWKS != nil {
		return o.JWKS.Keyfunc(token)
	}
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return []byte(o.Secret), nil
}

// parseToken validates the token and checks it was issued for the tenant the
// request host resolved to.
func (o JWTOptions) parseToken(c echo.Context, auth string) (interface{}, error) {
	claims := &services.TokenClaims{}
	token, err := jwt.ParseWithClaims(auth, claims, o.keyFunc,
		jwt.WithIssuer(services.TokenIssuer),
		jwt.WithAudience(services.TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok || claims.TenantID != tenantID.String() {
		return nil, errors.New("token was issued for a different tenant")
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, errors.New("token has no valid user id")
	}
	return claims, nil
}

// JWT authenticates the bearer token and puts the user id and role into the
// request context.
func JWT(opts JWTOptions) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: opts.parseToken,
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get("user").(*services.TokenClaims)
			if !ok {
				return
			}
			userID, _ := uuid.Parse(claims.UserID)
			ctx := common.WithUser(c.Request().Context(), userID, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ContinueOnIgnoredError: opts.Optional,
		ErrorHandler: func(c echo.Context, err error) error {
			var missing *echojwt.TokenExtractionError
			if opts.Optional && errors.As(err, &missing) {
				return nil
			}
			// Returning an error stops the chain even when ContinueOnIgnoredError is set.
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token").SetInternal(err)
		},
	})
}

// RequireRole rejects authenticated users without role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			current, ok := common.GetRoleFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if current != role {
				return c.JSON(http.StatusForbidden, common.CreateErrorResponse("FORBIDDEN", "Insufficient permissions", nil))
			}
			return next(c)
		}
	}
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"fairway/internal/common"

	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active", "deprecated"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// VersionMiddleware provides API versioning functionality
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
	appVersion        string
}

func NewVersionMiddleware(appVersion string) *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {Version: "v1", Status: "active", Message: "Current stable API version"},
		},
		defaultVersion: "v1",
		appVersion:     appVersion,
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", version)
			h.Set("X-App-Version", vm.appVersion)

			if ver, exists := vm.supportedVersions[version]; exists && ver.Status == "deprecated" && ver.SunsetDate != nil {
				h.Set("X-API-Deprecated", "true")
				h.Set("X-API-Sunset", ver.SunsetDate.Format(time.RFC3339))
				h.Set("Warning", "299 fairway \"This API version is deprecated and will be removed on "+ver.SunsetDate.Format(common.DateLayout)+"\"")
			}
			return next(c)
		}
	}
}

// APIVersionResolver rejects requests for versions this build does not serve.
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := extractVersionFromPath(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}
			if _, supported := vm.supportedVersions[version]; !supported {
				return c.JSON(http.StatusNotFound, common.CreateErrorResponse("UNSUPPORTED_VERSION", "Unsupported API version",
					map[string]string{"supported_versions": strings.Join(vm.activeVersions(), ", ")}))
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

// extractVersionFromPath reads a /vN prefix.
func extractVersionFromPath(path string) string {
	if len(path) < 3 || path[0] != '/' || path[1] != 'v' {
		return ""
	}
	end := strings.IndexByte(path[1:], '/')
	segment := path[2:]
	if end >= 0 {
		segment = path[2 : end+1]
	}
	n, err := strconv.Atoi(segment)
	if err != nil || n <= 0 {
		return ""
	}
	return "v" + strconv.Itoa(n)
}

func (vm *VersionMiddleware) activeVersions() []string {
	var versions []string
	for version, info := range vm.supportedVersions {
		if info.Status == "active" || info.Status == "deprecated" {
			versions = append(versions, version)
		}
	}
	return versions
}

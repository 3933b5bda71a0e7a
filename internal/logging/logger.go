package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"fairway/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New configures the global zerolog logger and returns it. Unknown levels fall
// back to info.
func New(level string, pretty bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, pretty)
}

func NewWithWriter(w io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	logger := zerolog.New(w).With().Timestamp().Str("service", "fairway").Logger()

	log.Logger = logger
	// log.Ctx on a context without a logger falls back to the global one.
	zerolog.DefaultContextLogger = &log.Logger
	return logger
}

// RequestLogger attaches a request scoped logger to the request context and
// writes one line per request once the handler returns.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			fields := base.With().
				Str("request_id", requestID).
				Str("method", req.Method).
				Str("path", c.Path())
			if tenantID, ok := common.GetTenantIDFromContext(req.Context()); ok {
				fields = fields.Str("tenant_id", tenantID.String())
			}
			logger := fields.Logger()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			event := logger.Info()
			switch {
			case status >= 500:
				event = logger.Error().Err(err)
			case status >= 400:
				event = logger.Warn()
			}
			event.
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Int64("bytes_out", c.Response().Size).
				Msg("request")
			return nil
		}
	}
}

// WithTenant adds the resolved tenant to the request logger.
func WithTenant(c echo.Context, tenantID string) {
	req := c.Request()
	logger := zerolog.Ctx(req.Context()).With().Str("tenant_id", tenantID).Logger()
	c.SetRequest(req.WithContext(logger.WithContext(req.Context())))
}

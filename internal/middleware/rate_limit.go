package middleware

import (
	"net/http"

	"github.com/deppfellow/go-calendar/internal/errs"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit logs a rejected request and reports it to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(c echo.Context, identifier string) {
	GetLogger(c).Warn().
		Str("identifier", identifier).
		Str("endpoint", c.Path()).
		Msg("rate limit exceeded")

	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint":   c.Path(),
			"identifier": identifier,
		})
	}
}

// Limit allows Server.RateLimit requests per second per client IP, with a
// burst of twice that. A zero rate disables limiting.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	limit := r.server.Config.Server.RateLimit
	if limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(limit),
		Burst: max(1, int(2*limit)),
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewForbiddenError("Unable to identify the client", false)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c, identifier)
			c.Response().Header().Set("Retry-After", "1")
			return errs.NewTooManyRequestsError(http.StatusText(http.StatusTooManyRequests))
		},
	})
}

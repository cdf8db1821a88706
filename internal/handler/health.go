package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/go-calendar/internal/middleware"
	"github.com/deppfellow/go-calendar/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HealthHandler reports whether the service and its dependencies are
// reachable, for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type healthCheck struct {
	name string
	ping func(ctx context.Context) error
}

// checks lists the configured dependencies that are in use. The memory
// driver has no database to ping and redis is optional.
func (h *HealthHandler) checks() []healthCheck {
	var checks []healthCheck
	obs := h.server.Config.Observability

	if h.server.DB != nil && obs.HealthCheckEnabled("database") {
		checks = append(checks, healthCheck{name: "database", ping: h.server.DB.Pool.Ping})
	}
	if h.server.Redis != nil && obs.HealthCheckEnabled("redis") {
		checks = append(checks, healthCheck{name: "redis", ping: func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}})
	}

	return checks
}

func (h *HealthHandler) recordFailure(attributes map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		attributes["operation"] = "health_check"
		app.RecordCustomEvent("HealthCheckError", attributes)
	}
}

func (h *HealthHandler) run(ctx context.Context, check healthCheck, logger *zerolog.Logger) (map[string]any, bool) {
	timeout := h.server.Config.Observability.HealthChecks.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := check.ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", check.name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordFailure(map[string]any{
			"check_type":       check.name,
			"error_type":       check.name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return map[string]any{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}, false
	}

	logger.Debug().
		Str("check", check.name).
		Dur("response_time", elapsed).
		Msg("health check passed")

	return map[string]any{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}, true
}

// CheckHealth answers 200 when every enabled check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]any)
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"driver":      h.server.Config.Database.Driver,
		"checks":      checks,
	}

	isHealthy := true
	for _, check := range h.checks() {
		result, ok := h.run(c.Request().Context(), check, &logger)
		checks[check.name] = result
		isHealthy = isHealthy && ok
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordFailure(map[string]any{
			"check_type":        "overall",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

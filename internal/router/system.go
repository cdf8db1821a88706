package router

import (
	"github.com/deppfellow/go-calendar/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints outside the calendar API:
// health, the OpenAPI assets, the docs page and, locally, email previews.
// They stay public even when auth is enabled.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, env string) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", handler.StaticDir)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	if env == "local" {
		r.GET("/emails/preview/:template", h.Email.PreviewEmail)
	}
}

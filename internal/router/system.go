package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/contactbook/internal/handler"
	"github.com/deppfellow/contactbook/static"
)

// registerSystemRoutes registers "system" endpoints that are not part of business logic:
//  1. Health endpoint
//  2. Docs endpoint (OpenAPI UI)
//  3. Static files endpoint (openapi.json and openapi.html, embedded)
//  4. Prometheus metrics
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Health status endpoint (used by monitors and load balancers).
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.FS)

	// Docs UI endpoint (serves openapi.html).
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	r.GET("/metrics", h.Metrics.ServeMetrics)
}

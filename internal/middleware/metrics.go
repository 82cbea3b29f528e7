package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Metrics returns a middleware counting requests and timing them per route,
// method and final status into the server's metrics set.
func (global *GlobalMiddlewares) Metrics() echo.MiddlewareFunc {
	set := global.server.Metrics

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusOf(err)
			}

			// Unmatched paths share one label so clients cannot grow the set.
			path := c.Path()
			if path == "" || status == http.StatusNotFound && path == "/*" {
				path = "unmatched"
			}

			labels := fmt.Sprintf(`{method=%q,path=%q,status="%d"}`, c.Request().Method, path, status)
			set.GetOrCreateCounter("http_requests_total" + labels).Inc()
			// Log-scale vmrange buckets, no bucket layout to maintain.
			set.GetOrCreateHistogram("http_request_duration_seconds" + labels).UpdateDuration(start)

			return err
		}
	}
}

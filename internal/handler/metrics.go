package handler

import (
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/contactbook/internal/server"
)

// MetricsHandler exposes the metrics set in the Prometheus text format.
type MetricsHandler struct {
	Handler
}

func NewMetricsHandler(s *server.Server) *MetricsHandler {
	return &MetricsHandler{Handler: NewHandler(s)}
}

// ServeMetrics writes the server's metrics followed by the Go runtime and
// process metrics.
func (h *MetricsHandler) ServeMetrics(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	h.server.Metrics.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
	return nil
}

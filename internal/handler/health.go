package handler

// HealthHandler exposes a "system" endpoint that uptime monitors and load
// balancers use to verify the service is alive and the remote store is
// reachable.
import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/contactbook/internal/middleware"
	"github.com/deppfellow/contactbook/internal/server"
)

// Health states reported by /status.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthHandler embeds the base Handler to reuse shared server dependencies.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler with access to shared app dependencies.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// HealthResponse is the body of /status.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckResult is the outcome of a single dependency check.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// CheckHealth returns system health status and dependency checks.
//
// The only dependency is the remote store. It is probed by fetching the
// registry file; a missing file still proves the store answers.
//
// It returns:
// - 200 OK if all checks pass
// - 503 Service Unavailable if any check fails
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	// Use the request-scoped logger from context enhancer middleware.
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      StatusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}

	if h.server.Config.Observability.HealthChecks.Enabled {
		check := h.checkStore(c.Request().Context(), &logger)
		response.Checks["store"] = check
		if check.Status != StatusHealthy {
			response.Status = StatusUnhealthy
		}
	}

	if response.Status != StatusHealthy {
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

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return errors.Wrap(err, "failed to write JSON response")
	}

	return nil
}

func (h *HealthHandler) checkStore(ctx context.Context, logger *zerolog.Logger) CheckResult {
	// A half configured store never gets a client, so there is nothing to probe.
	if h.server.StoreErr != nil {
		logger.Error().Err(h.server.StoreErr).Msg("store health check failed")
		h.recordFailure(map[string]any{
			"check_type":    "store",
			"error_type":    "store_not_configured",
			"error_message": h.server.StoreErr.Error(),
		})
		return CheckResult{Status: StatusUnhealthy, Error: h.server.StoreErr.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	storeStart := time.Now()
	_, err := h.server.Store.Fetch(ctx, h.server.Config.Remote.FilePath, h.server.Config.Remote.Branch)
	elapsed := time.Since(storeStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msg("store health check failed")

		h.recordFailure(map[string]any{
			"check_type":       "store",
			"error_type":       "store_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return CheckResult{Status: StatusUnhealthy, ResponseTime: elapsed.String(), Error: err.Error()}
	}

	logger.Info().
		Dur("response_time", elapsed).
		Msg("store health check passed")

	return CheckResult{Status: StatusHealthy, ResponseTime: elapsed.String()}
}

// recordFailure records a New Relic custom event if the agent is running.
func (h *HealthHandler) recordFailure(attrs map[string]any) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	attrs["operation"] = "health_check"
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
}

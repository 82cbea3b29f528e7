package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/contactbook/internal/errs"
	"github.com/deppfellow/contactbook/internal/server"
)

// GlobalMiddlewares groups "global" middleware and the global error handler.
//
// It is a struct so middleware functions can access shared app dependencies
// from *server.Server, especially config and logging.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo's CORS middleware configured by your server config.
//
// Browser clients may call the API from any configured origin with GET,
// POST and OPTIONS, sending Content-Type. Preflight OPTIONS requests are
// answered with 204 and no body.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	origins := global.server.Config.Server.CORSAllowedOrigins
	methods := []string{http.MethodGet, http.MethodPost, http.MethodOptions}

	cors := middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: methods,
		AllowHeaders: []string{echo.HeaderContentType},
		ExposeHeaders: []string{
			echo.HeaderContentDisposition,
			ContactCountHeader,
			RequestIDHeader,
		},
	})
	if !slices.Contains(origins, "*") {
		return cors
	}

	// With every origin allowed the headers are static, so they go on all
	// responses, including requests without an Origin header.
	allowMethods := strings.Join(methods, ",")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		handler := cors(next)
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			h.Set(echo.HeaderAccessControlAllowMethods, allowMethods)
			h.Set(echo.HeaderAccessControlAllowHeaders, echo.HeaderContentType)
			return handler(c)
		}
	}
}

// ContactCountHeader reports the number of stored contacts on exports.
const ContactCountHeader = "X-Contact-Count"

// RequestLogger returns Echo's request logger middleware, but with a custom LogValuesFunc.
//
// It produces one "API" log line per request, with severity based on the
// final status, carrying the request id.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error, Echo has not written the final
			// status yet; GlobalErrorHandler does. Derive it from the error so
			// failed requests are not logged as 200.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = statusOf(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// statusOf returns the status GlobalErrorHandler will answer err with.
func statusOf(err error) int {
	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// Recover returns Echo's panic recovery middleware.
//
// Panics become 500 responses through GlobalErrorHandler.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every error ends up here, regardless of where it happened:
//   - *errs.HTTPError is rendered as is (details stripped in production),
//   - Echo's own errors (unknown route, wrong method) keep their status,
//   - anything else becomes a generic 500.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	// Keep the original error for logging.
	originalErr := err

	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		// Our custom error already has the full response schema.

	case errors.As(err, &echoErr):
		switch echoErr.Code {
		case http.StatusNotFound:
			httpErr = errs.NewNotFoundError("Route not found")
		case http.StatusMethodNotAllowed:
			httpErr = errs.NewMethodNotAllowedError()
		default:
			message, ok := echoErr.Message.(string)
			if !ok {
				message = http.StatusText(echoErr.Code)
			}
			httpErr = &errs.HTTPError{
				Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
				Message: message,
				Status:  echoErr.Code,
			}
		}

	default:
		httpErr = errs.NewInternalServerError("Internal server error").WithDetails(err)
	}

	if global.server.Config.IsProduction() {
		httpErr = httpErr.Public()
	}

	logger := GetLogger(c)

	event := logger.Warn()
	if httpErr.Status >= http.StatusInternalServerError {
		event = logger.Error().Stack()
	}
	event.
		Err(originalErr).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	// Only write response if it hasn't already been written.
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}
	_ = c.JSON(httpErr.Status, httpErr)
}

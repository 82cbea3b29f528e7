package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/contactbook/internal/server"
)

// TracingMiddleware wires New Relic into the router. With New Relic disabled
// both of its middleware are pass-throughs.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware starts one transaction per request and puts it in the
// request context for newrelic.FromContext.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return passThrough
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing tags the transaction with the caller, the request id and
// where the registry lives, and after the handler with the final status and
// the exported contact count.
//
// Only failures answered with 5xx are noticed. Validation, duplicate and
// not-found answers are normal outcomes of the endpoints.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	remote := tm.server.Config.Remote
	backend := tm.server.Config.Store.Backend

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("http.user_agent", c.Request().UserAgent())
			txn.AddAttribute("registry.backend", backend)
			if remote.Repo != "" {
				txn.AddAttribute("registry.repo", remote.Owner+"/"+remote.Repo)
				txn.AddAttribute("registry.ref", remote.Branch+":"+remote.FilePath)
			}
			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}

			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusOf(err)
				if status >= 500 {
					txn.NoticeError(nrpkgerrors.Wrap(err))
				}
			}
			txn.AddAttribute("http.status_code", status)
			if count := c.Response().Header().Get(ContactCountHeader); count != "" {
				txn.AddAttribute("export.contact_count", count)
			}

			return err
		}
	}
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}

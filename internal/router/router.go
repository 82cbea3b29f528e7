// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/contactbook/internal/handler"
	"github.com/deppfellow/contactbook/internal/lib/vcf"
	"github.com/deppfellow/contactbook/internal/middleware"
	"github.com/deppfellow/contactbook/internal/server"
)

// NewRouter builds the Echo instance with every middleware and route.
//
// Middleware order matters:
//  1. RequestID first, so everything after it can log the id
//  2. New Relic starts the transaction, EnhanceTracing decorates it
//  3. EnhanceContext builds the request logger (it reads both of the above)
//  4. RequestLogger writes one line per request with that logger
//  5. Metrics counts and times every request by route and final status
//  6. CORS, secure headers and panic recovery wrap the handlers
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Metrics(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerContactRoutes(api, h)
	registerExportRoutes(api, s, h)

	return router
}

// registerContactRoutes registers the registry endpoint. Any other method
// than GET, POST and the CORS preflight answers 405.
func registerContactRoutes(api *echo.Group, h *handler.Handlers) {
	api.GET("/contacts", handler.Handle(h.Contacts.Handler, h.Contacts.List, http.StatusOK))
	api.POST("/contacts", handler.Handle(h.Contacts.Handler, h.Contacts.Add, http.StatusOK))
}

func registerExportRoutes(api *echo.Group, s *server.Server, h *handler.Handlers) {
	api.GET("/export", handler.HandleFile(
		h.Export.Handler,
		h.Export.Export,
		http.StatusOK,
		s.Config.Export.Filename,
		vcf.ContentType,
	))
}

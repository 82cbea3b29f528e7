package handler

import (
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deppfellow/contactbook/internal/server"
	"github.com/deppfellow/contactbook/static"
)

// OpenAPIHandler serves the API documentation UI.
//
// The UI is a static HTML page that loads its JS from a CDN and reads
// /static/openapi.json. Both files are embedded in the binary.
type OpenAPIHandler struct {
	Handler
	assets fs.FS
}

// NewOpenAPIHandler constructs an OpenAPIHandler with access to shared dependencies.
func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		assets:  static.FS,
	}
}

// ServeOpenAPIUI serves openapi.html.
//
// Cache-Control is set to "no-cache" so clients do not reuse old docs UI.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := fs.ReadFile(h.assets, "openapi.html")

	// Prevent caching of the docs UI page.
	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return errors.Wrap(err, "failed to read OpenAPI UI template")
	}

	if err := c.HTMLBlob(http.StatusOK, page); err != nil {
		return errors.Wrap(err, "failed to write HTML response")
	}

	return nil
}

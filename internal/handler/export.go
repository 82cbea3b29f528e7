package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/contactbook/internal/middleware"
	"github.com/deppfellow/contactbook/internal/server"
	"github.com/deppfellow/contactbook/internal/service"
)

// ExportRequest has no parameters.
type ExportRequest struct{}

func (r *ExportRequest) Validate() error { return nil }

// ExportHandler serves the vCard download.
type ExportHandler struct {
	Handler
	export *service.ExportService
}

func NewExportHandler(s *server.Server, export *service.ExportService) *ExportHandler {
	return &ExportHandler{
		Handler: NewHandler(s),
		export:  export,
	}
}

// Export renders the registry. The count header reports every stored
// contact, including the ones that failed to render.
func (h *ExportHandler) Export(c echo.Context, _ *ExportRequest) (*File, error) {
	result, err := h.export.Export(c.Request().Context())
	if err != nil {
		return nil, exportError(err)
	}

	if result.Skipped > 0 {
		middleware.GetLogger(c).Warn().
			Int("total", result.Total).
			Int("skipped", result.Skipped).
			Msg("export is missing contacts that failed to render")
	}

	return &File{
		Data: result.Data,
		Headers: map[string]string{
			middleware.ContactCountHeader: strconv.Itoa(result.Total),
		},
	}, nil
}

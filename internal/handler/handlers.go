package handler

import (
	"github.com/deppfellow/contactbook/internal/server"
	"github.com/deppfellow/contactbook/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router setup
// passes one object around instead of many.
type Handlers struct {
	Health   *HealthHandler  // Health serves /status.
	OpenAPI  *OpenAPIHandler // OpenAPI serves the docs UI.
	Metrics  *MetricsHandler // Metrics serves /metrics.
	Contacts *ContactHandler // Contacts serves the registry endpoint.
	Export   *ExportHandler  // Export serves the vCard download.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Metrics:  NewMetricsHandler(s),
		Contacts: NewContactHandler(s, services.Contacts),
		Export:   NewExportHandler(s, services.Export),
	}
}

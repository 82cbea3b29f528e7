package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deppfellow/contactbook/internal/lib/vcf"
	"github.com/deppfellow/contactbook/internal/model"
	"github.com/deppfellow/contactbook/internal/repository"
	"github.com/deppfellow/contactbook/internal/server"
)

// NotFoundReason tells the two "nothing to export" cases apart. Both are
// the same kind of error for clients; only the text differs.
type NotFoundReason int

const (
	ReasonNoFile NotFoundReason = iota
	ReasonNoContacts
)

// NotFoundError is an export without data.
type NotFoundError struct {
	Reason     NotFoundReason
	Message    string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func noFileError(path string) *NotFoundError {
	return &NotFoundError{
		Reason:     ReasonNoFile,
		Message:    "No contacts file found on GitHub.",
		Suggestion: `Initialize ` + path + ` with { "count": 0, "contacts": [] }.`,
	}
}

func noContactsError() *NotFoundError {
	return &NotFoundError{
		Reason:     ReasonNoContacts,
		Message:    "No contacts available to export",
		Suggestion: "Add contacts first before exporting",
	}
}

// ExportResult is a rendered vCard document.
type ExportResult struct {
	Data []byte

	// Total counts every stored contact, including skipped ones.
	Total   int
	Skipped int
}

const metricRenderFailures = "export_render_failures_total"

// ExportService renders the registry as one vCard document.
type ExportService struct {
	server   *server.Server
	repo     *repository.ContactRepository
	renderer vcf.Renderer
}

func NewExportService(s *server.Server, repo *repository.ContactRepository, renderer vcf.Renderer) *ExportService {
	return &ExportService{server: s, repo: repo, renderer: renderer}
}

// Export renders every contact that can be rendered. A contact failing to
// render is logged and left out; it never aborts the document.
func (s *ExportService) Export(ctx context.Context) (*ExportResult, error) {
	if s.server.StoreErr != nil {
		return nil, s.server.StoreErr
	}

	snapshot, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !snapshot.Exists {
		return nil, noFileError(s.server.Config.Remote.FilePath)
	}
	if len(snapshot.Registry.Contacts) == 0 {
		return nil, noContactsError()
	}

	return s.render(ctx, snapshot.Registry), nil
}

func (s *ExportService) render(ctx context.Context, r model.Registry) *ExportResult {
	logger := zerolog.Ctx(ctx)

	cards := make([]vcf.Card, 0, len(r.Contacts))
	skipped := 0
	for card, err := range vcf.Cards(r.Contacts, s.renderer) {
		if err != nil {
			logger.Warn().Err(err).Msg("skipping contact that failed to render")
			skipped++
			continue
		}
		cards = append(cards, card)
	}

	s.server.Metrics.GetOrCreateCounter(metricRenderFailures).Add(skipped)

	return &ExportResult{
		Data:    vcf.Join(cards),
		Total:   len(r.Contacts),
		Skipped: skipped,
	}
}

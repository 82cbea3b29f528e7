package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/contactbook/internal/config"
	"github.com/deppfellow/contactbook/internal/lib/vcf"
	"github.com/deppfellow/contactbook/internal/model"
	"github.com/deppfellow/contactbook/internal/repository"
	"github.com/deppfellow/contactbook/internal/server"
	"github.com/deppfellow/contactbook/internal/store"
)

type fixture struct {
	blobs    *store.Memory
	server   *server.Server
	repo     *repository.ContactRepository
	contacts *ContactService
	export   *ExportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	log := zerolog.Nop()

	blobs := store.NewMemory()
	s := server.NewWithStore(cfg, &log, blobs)
	repos := repository.NewRepositories(s)
	services, err := NewService(s, repos)
	if err != nil {
		t.Fatalf("new services: %v", err)
	}

	ids := 0
	services.Contacts.newID = func() (string, error) {
		ids++
		return fmt.Sprintf("id-%d", ids), nil
	}
	services.Contacts.now = func() time.Time {
		return time.Date(2024, 3, 7, 10, 30, 0, 0, time.UTC)
	}

	return &fixture{
		blobs:    blobs,
		server:   s,
		repo:     repos.Contacts,
		contacts: services.Contacts,
		export:   services.Export,
	}
}

func (f *fixture) seed(t *testing.T, content string) {
	t.Helper()
	cfg := f.server.Config.Remote
	if _, err := f.blobs.Write(context.Background(), store.WriteRequest{
		Path: cfg.FilePath, Branch: cfg.Branch, Content: []byte(content), Message: "seed",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func (f *fixture) stored(t *testing.T) string {
	t.Helper()
	cfg := f.server.Config.Remote
	res, err := f.blobs.Fetch(context.Background(), cfg.FilePath, cfg.Branch)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	return string(res.Content)
}

func TestListEmpty(t *testing.T) {
	f := newFixture(t)

	for range 2 {
		list, err := f.contacts.List(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if list.Count != 0 || list.Contacts == nil || len(list.Contacts) != 0 {
			t.Fatalf("expected empty list, got %+v", list)
		}
	}
}

func TestListReconcilesCount(t *testing.T) {
	f := newFixture(t)
	f.seed(t, `{"count": 42, "contacts": [
		{"id":"a","fullName":"Ada","number":"11111","timestamp":"t","internal":"hidden"},
		{"id":"b","fullName":"Grace","number":"22222","timestamp":"t"}
	]}`)

	list, err := f.contacts.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Count != 2 || len(list.Contacts) != 2 {
		t.Fatalf("count not reconciled: %+v", list)
	}
	if list.Contacts[0] != (model.PublicContact{ID: "a", FullName: "Ada", Number: "11111", Timestamp: "t"}) {
		t.Fatalf("unexpected projection %+v", list.Contacts[0])
	}
}

func TestAddRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.contacts.Add(ctx, AddContactInput{FullName: "  Jane   Doe ", Number: "(555) 123-4567", CountryCode: "1"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !res.Success || res.Count != 1 || res.Message != ContactSavedMessage {
		t.Fatalf("unexpected result %+v", res)
	}

	want := model.PublicContact{
		ID:        "id-1",
		FullName:  "Jane Doe",
		Number:    "+15551234567",
		Timestamp: "2024-03-07T10:30:00.000Z",
	}

	list, err := f.contacts.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Count != 1 || list.Contacts[0] != want {
		t.Fatalf("got %+v, want %+v", list, want)
	}
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name      string
		in        AddContactInput
		wantField string
		wantMsg   string
	}{
		{"bad character", AddContactInput{FullName: "J@ne", Number: "5551234567"}, "fullName", NameRuleMessage},
		{"blank name", AddContactInput{FullName: "   ", Number: "5551234567"}, "fullName", NameRuleMessage},
		{"digits in name", AddContactInput{FullName: "Agent 007", Number: "5551234567"}, "fullName", NameRuleMessage},
		{"short number", AddContactInput{FullName: "Jane", Number: "12"}, "number", NumberRuleMessage},
		{"country code does not count", AddContactInput{FullName: "Jane", Number: "1234", CountryCode: "44"}, "number", NumberRuleMessage},
		{"no digits", AddContactInput{FullName: "Jane", Number: "call me"}, "number", NumberRuleMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.contacts.Add(context.Background(), tt.in)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tt.wantField || validationErr.Message != tt.wantMsg {
				t.Fatalf("got %+v", validationErr)
			}
			if f.stored(t) != "" {
				t.Fatal("rejected contact must not be written")
			}
		})
	}
}

func TestAddDuplicate(t *testing.T) {
	tests := []struct {
		name   string
		second AddContactInput
	}{
		{"same number, other formatting", AddContactInput{FullName: "John Roe", Number: "555.123.4567", CountryCode: "+1"}},
		{"same name, other case", AddContactInput{FullName: "jane DOE", Number: "99999"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			if _, err := f.contacts.Add(ctx, AddContactInput{FullName: "Jane Doe", Number: "(555) 123-4567", CountryCode: "1"}); err != nil {
				t.Fatalf("first add: %v", err)
			}
			before := f.stored(t)

			_, err := f.contacts.Add(ctx, tt.second)
			var dupErr *DuplicateError
			if !errors.As(err, &dupErr) {
				t.Fatalf("expected DuplicateError, got %v", err)
			}
			if f.stored(t) != before {
				t.Fatal("registry changed after a rejected duplicate")
			}
		})
	}
}

func TestAddKeepsUnknownKeys(t *testing.T) {
	f := newFixture(t)
	f.seed(t, `{"count":1,"owner":"me","contacts":[{"id":"a","fullName":"Ada","number":"11111","timestamp":"t","tag":"vip"}]}`)

	if _, err := f.contacts.Add(context.Background(), AddContactInput{FullName: "Grace", Number: "22222"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	stored := f.stored(t)
	for _, want := range []string{`"owner": "me"`, `"tag": "vip"`, `"count": 2`} {
		if !strings.Contains(stored, want) {
			t.Errorf("stored file lost %s:\n%s", want, stored)
		}
	}
}

func TestAddKeepsContactsWithNumericFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, `{"count":2,"contacts":[
		{"id":"a","fullName":"Ada Lovelace","number":15551234567,"timestamp":"t"},
		{"id":"b","fullName":"Grace Hopper","number":"+15559876543","timestamp":"t"}
	]}`)

	res, err := f.contacts.Add(ctx, AddContactInput{FullName: "Alan Turing", Number: "5550001111"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if res.Count != 3 {
		t.Fatalf("stored contacts lost: want 3, got %d", res.Count)
	}

	if _, err := f.contacts.Add(ctx, AddContactInput{FullName: "Someone Else", Number: "1 555 123 4567"}); err == nil {
		t.Fatal("expected duplicate of the numeric number")
	}
}

func TestAddOverMalformedFile(t *testing.T) {
	f := newFixture(t)
	f.seed(t, `not json`)

	res, err := f.contacts.Add(context.Background(), AddContactInput{FullName: "Ada", Number: "12345"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("expected the malformed file to be replaced, got count %d", res.Count)
	}
}

// racingStore lets another writer commit between this request's read and
// its write.
type racingStore struct {
	*store.Memory
	race func()
}

func (s *racingStore) Write(ctx context.Context, req store.WriteRequest) (store.WriteResult, error) {
	if s.race != nil {
		race := s.race
		s.race = nil
		race()
	}
	return s.Memory.Write(ctx, req)
}

func TestAddStaleRevision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, `{"count":0,"contacts":[]}`)

	racing := &racingStore{Memory: f.blobs}
	f.contacts.repo = repository.NewContactRepository(racing, repository.Location{
		Path: f.server.Config.Remote.FilePath, Branch: f.server.Config.Remote.Branch,
	})
	racing.race = func() {
		snap, err := f.repo.Load(ctx)
		if err != nil {
			t.Fatalf("racing load: %v", err)
		}
		snap.Registry.Append(model.Contact{ID: "w", FullName: "Winner", Number: "99999", Timestamp: "t"})
		if _, err := f.repo.Save(ctx, snap, "racing write"); err != nil {
			t.Fatalf("racing save: %v", err)
		}
	}

	_, err := f.contacts.Add(ctx, AddContactInput{FullName: "Loser", Number: "12345"})
	if !store.IsConflict(err) {
		t.Fatalf("expected a conflict, got %v", err)
	}

	list, err := f.contacts.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Count != 1 || list.Contacts[0].FullName != "Winner" {
		t.Fatalf("losing write leaked into the registry: %+v", list)
	}
	if got := f.server.Metrics.GetOrCreateCounter(metricConflicts).Get(); got != 1 {
		t.Fatalf("conflict counter = %d", got)
	}
	if got := f.server.Metrics.GetOrCreateCounter(metricAdded).Get(); got != 0 {
		t.Fatalf("added counter = %d", got)
	}
}

func TestMissingConfiguration(t *testing.T) {
	f := newFixture(t)
	f.server.StoreErr = &config.ConfigurationError{Missing: []string{"REMOTE_TOKEN"}}

	var cfgErr *config.ConfigurationError
	if _, err := f.contacts.List(context.Background()); !errors.As(err, &cfgErr) {
		t.Fatalf("list: expected ConfigurationError, got %v", err)
	}
	if _, err := f.contacts.Add(context.Background(), AddContactInput{FullName: "Ada", Number: "12345"}); !errors.As(err, &cfgErr) {
		t.Fatalf("add: expected ConfigurationError, got %v", err)
	}
	if _, err := f.export.Export(context.Background()); !errors.As(err, &cfgErr) {
		t.Fatalf("export: expected ConfigurationError, got %v", err)
	}
}

func TestExportNotFound(t *testing.T) {
	tests := []struct {
		name   string
		seed   string
		reason NotFoundReason
	}{
		{"no file", "", ReasonNoFile},
		{"zero contacts", `{"count":0,"contacts":[]}`, ReasonNoContacts},
		{"malformed file", `{"contacts":{}}`, ReasonNoContacts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.seed != "" {
				f.seed(t, tt.seed)
			}

			_, err := f.export.Export(context.Background())
			var notFound *NotFoundError
			if !errors.As(err, &notFound) || notFound.Reason != tt.reason {
				t.Fatalf("expected NotFoundError(%d), got %v", tt.reason, err)
			}
			if notFound.Suggestion == "" {
				t.Fatal("expected a suggestion")
			}
		})
	}
}

func TestExportContent(t *testing.T) {
	f := newFixture(t)
	f.seed(t, `{"count":1,"contacts":[{"id":"a","fullName":"Ada Lovelace","number":"15551234567","timestamp":"2024-03-07T10:30:00.000Z"}]}`)

	res, err := f.export.Export(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	doc := string(res.Data)
	if strings.Count(doc, "BEGIN:VCARD") != 1 {
		t.Fatalf("expected one card:\n%s", doc)
	}
	for _, want := range []string{"N:Lovelace;Ada;;;", "15551234567", "on 3/7/2024"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document lacks %q:\n%s", want, doc)
		}
	}
	if res.Total != 1 || res.Skipped != 0 {
		t.Fatalf("unexpected counts %+v", res)
	}
}

type failingRenderer struct {
	vcf.Renderer
	failID string
}

func (r failingRenderer) Render(c model.Contact) ([]byte, error) {
	if c.ID == r.failID {
		return nil, errors.New("cannot render")
	}
	return r.Renderer.Render(c)
}

func TestExportSkipsFailingContacts(t *testing.T) {
	f := newFixture(t)
	f.seed(t, `{"count":3,"contacts":[
		{"id":"a","fullName":"Ada Lovelace","number":"11111","timestamp":"t"},
		{"id":"b","fullName":"Grace Hopper","number":"22222","timestamp":"t"},
		{"id":"c","fullName":"Alan Turing","number":"33333","timestamp":"t"}
	]}`)
	f.export.renderer = failingRenderer{Renderer: vcf.Encoder{Attribution: "Added"}, failID: "b"}

	res, err := f.export.Export(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if got := strings.Count(string(res.Data), "BEGIN:VCARD"); got != 2 {
		t.Fatalf("expected 2 cards, got %d", got)
	}
	if res.Total != 3 || res.Skipped != 1 {
		t.Fatalf("unexpected counts %+v", res)
	}
	if strings.Contains(string(res.Data), "Hopper") {
		t.Fatal("failed contact leaked into the document")
	}
	if got := f.server.Metrics.GetOrCreateCounter(metricRenderFailures).Get(); got != 1 {
		t.Fatalf("render failure counter = %d", got)
	}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deppfellow/contactbook/internal/model"
	"github.com/deppfellow/contactbook/internal/repository"
	"github.com/deppfellow/contactbook/internal/server"
	"github.com/deppfellow/contactbook/internal/store"
	"github.com/deppfellow/contactbook/internal/validation"
)

// Client-facing messages of the registry endpoint.
const (
	NameRuleMessage     = `Name can contain letters, spaces, and basic punctuation (-.,'"()).`
	NumberRuleMessage   = "Phone number must be at least 5 digits"
	DuplicateMessage    = "Contact with same name or number already exists!"
	ContactSavedMessage = "Contact saved successfully"
)

// Registry metrics.
const (
	metricAdded      = "contacts_added_total"
	metricDuplicates = "contacts_duplicates_rejected_total"
	metricConflicts  = "registry_write_conflicts_total"
)

// timestampLayout is ISO-8601 in UTC with millisecond precision,
// e.g. 2024-03-07T10:30:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ValidationError is a submitted contact with an unacceptable field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// DuplicateError is a submitted contact whose name or number is taken.
type DuplicateError struct {
	Name   string
	Number string
}

func (e *DuplicateError) Error() string {
	return DuplicateMessage
}

// AddContactInput is a contact as submitted by a client, before any
// normalization.
type AddContactInput struct {
	FullName    string
	Number      string
	CountryCode string
}

// ContactList is the public read model of the registry.
type ContactList struct {
	Count    int                   `json:"count"`
	Contacts []model.PublicContact `json:"contacts"`
}

// AddContactResult confirms a stored contact.
type AddContactResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Message string `json:"message"`

	Contact model.PublicContact `json:"-"`
	Commit  string              `json:"-"`
}

// normalizedContact is what gets validated: values re-derived on the
// server, never the client's own formatting.
type normalizedContact struct {
	FullName string `json:"fullName" validate:"required,contactname"`
	Number   string `json:"number" validate:"required,min=5"`
}

// ContactService implements the registry read and write paths.
type ContactService struct {
	server *server.Server
	repo   *repository.ContactRepository

	now   func() time.Time
	newID func() (string, error)
}

func NewContactService(s *server.Server, repo *repository.ContactRepository) *ContactService {
	return &ContactService{
		server: s,
		repo:   repo,
		now:    time.Now,
		newID:  newContactID,
	}
}

// newContactID returns a time-ordered UUID (v7), so ids sort like the
// contacts were added.
func newContactID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// List returns every stored contact projected to its public fields.
// No stored file yields an empty list.
func (s *ContactService) List(ctx context.Context) (*ContactList, error) {
	if s.server.StoreErr != nil {
		return nil, s.server.StoreErr
	}

	snapshot, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &ContactList{
		Count:    snapshot.Registry.Count,
		Contacts: snapshot.Registry.Public(),
	}, nil
}

// Add normalizes, validates, de-duplicates and stores one contact.
//
// The read revision is asserted on write. A concurrent writer wins and this
// call fails; there is no retry.
func (s *ContactService) Add(ctx context.Context, in AddContactInput) (*AddContactResult, error) {
	if s.server.StoreErr != nil {
		return nil, s.server.StoreErr
	}

	logger := zerolog.Ctx(ctx)

	snapshot, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	subscriber := model.Digits(in.Number)
	candidate := normalizedContact{
		FullName: model.NormalizeName(in.FullName),
		Number:   subscriber,
	}
	if err := validation.Struct(candidate); err != nil {
		return nil, contactValidationError(err)
	}
	fullNumber := model.FullNumber(model.Digits(in.CountryCode), subscriber)

	if findDuplicate(snapshot.Registry, candidate.FullName, fullNumber) {
		logger.Info().
			Str("full_name", candidate.FullName).
			Msg("rejected duplicate contact")
		s.server.Metrics.GetOrCreateCounter(metricDuplicates).Inc()
		return nil, &DuplicateError{Name: candidate.FullName, Number: fullNumber}
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate contact id: %w", err)
	}
	contact := model.Contact{
		ID:        id,
		FullName:  candidate.FullName,
		Number:    fullNumber,
		Timestamp: s.now().UTC().Format(timestampLayout),
	}
	snapshot.Registry.Append(contact)

	message := fmt.Sprintf("Add contact: %s (%s)", contact.FullName, contact.Number)
	written, err := s.repo.Save(ctx, snapshot, message)
	if err != nil {
		if store.IsConflict(err) {
			logger.Warn().
				Str("revision", string(snapshot.Revision)).
				Msg("registry changed since it was read, contact not saved")
			s.server.Metrics.GetOrCreateCounter(metricConflicts).Inc()
		}
		return nil, err
	}
	s.server.Metrics.GetOrCreateCounter(metricAdded).Inc()

	logger.Info().
		Str("contact_id", contact.ID).
		Str("commit", written.Commit).
		Int("count", snapshot.Registry.Count).
		Msg("contact saved")

	return &AddContactResult{
		Success: true,
		Count:   snapshot.Registry.Count,
		Message: ContactSavedMessage,
		Contact: contact.Public(),
		Commit:  written.Commit,
	}, nil
}

// contactValidationError maps the first failing field to its fixed
// client message.
func contactValidationError(err error) *ValidationError {
	field, _ := validation.FirstError(err)
	if field == "number" {
		return &ValidationError{Field: "number", Message: NumberRuleMessage}
	}
	return &ValidationError{Field: "fullName", Message: NameRuleMessage}
}

// findDuplicate reports whether any stored contact has the same name,
// ignoring case, or the same number once both are reduced to digits.
func findDuplicate(r model.Registry, name, number string) bool {
	lowerName := strings.ToLower(name)
	digits := model.Digits(number)

	for _, c := range r.Contacts {
		if strings.ToLower(c.FullName) == lowerName {
			return true
		}
		if model.Digits(c.Number) == digits {
			return true
		}
	}
	return false
}

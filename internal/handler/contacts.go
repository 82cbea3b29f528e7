package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/contactbook/internal/server"
	"github.com/deppfellow/contactbook/internal/service"
	"github.com/deppfellow/contactbook/internal/validation"
)

// ListContactsRequest has no parameters.
type ListContactsRequest struct{}

func (r *ListContactsRequest) Validate() error { return nil }

// AddContactRequest is the POST body of the registry endpoint.
//
// Values are taken as typed by the client, strings or numbers. The rules
// apply to the normalized values, so they are checked by the service.
type AddContactRequest struct {
	FullName    validation.Text `json:"fullName"`
	Number      validation.Text `json:"number"`
	CountryCode validation.Text `json:"countryCode"`
}

func (r *AddContactRequest) Validate() error { return nil }

// ContactHandler serves the registry endpoint.
type ContactHandler struct {
	Handler
	contacts *service.ContactService
}

func NewContactHandler(s *server.Server, contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{
		Handler:  NewHandler(s),
		contacts: contacts,
	}
}

// List returns every stored contact.
func (h *ContactHandler) List(c echo.Context, _ *ListContactsRequest) (*service.ContactList, error) {
	list, err := h.contacts.List(c.Request().Context())
	if err != nil {
		return nil, registryError(err)
	}
	return list, nil
}

// Add stores a new contact.
func (h *ContactHandler) Add(c echo.Context, req *AddContactRequest) (*service.AddContactResult, error) {
	result, err := h.contacts.Add(c.Request().Context(), service.AddContactInput{
		FullName:    req.FullName.String(),
		Number:      req.Number.String(),
		CountryCode: req.CountryCode.String(),
	})
	if err != nil {
		return nil, registryError(err)
	}
	return result, nil
}

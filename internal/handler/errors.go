package handler

import (
	"github.com/pkg/errors"

	"github.com/deppfellow/contactbook/internal/config"
	"github.com/deppfellow/contactbook/internal/errs"
	"github.com/deppfellow/contactbook/internal/service"
)

// registryError translates a registry service failure into its response.
func registryError(err error) error {
	var cfgErr *config.ConfigurationError
	var validationErr *service.ValidationError
	var dupErr *service.DuplicateError

	switch {
	case errors.As(err, &cfgErr):
		return errs.NewConfigurationError(cfgErr.Error())
	case errors.As(err, &validationErr):
		return errs.NewBadRequestError(validationErr.Message, validationErr.Field)
	case errors.As(err, &dupErr):
		return errs.NewBadRequestError(dupErr.Error(), "")
	default:
		return errs.NewInternalServerError("Internal server error").WithDetails(err)
	}
}

// exportError translates an export service failure into its response.
// Export clients always get an explicit "success": false.
func exportError(err error) error {
	var cfgErr *config.ConfigurationError
	var notFound *service.NotFoundError

	switch {
	case errors.As(err, &cfgErr):
		return errs.NewConfigurationError(cfgErr.Error()).AsFailure()
	case errors.As(err, &notFound):
		return errs.NewNotFoundError(notFound.Message).WithSuggestion(notFound.Suggestion).AsFailure()
	default:
		return errs.NewInternalServerError("Failed to generate contact file").WithDetails(err).AsFailure()
	}
}

package errs

import (
	"net/http"
)

func codeFor(status int) string {
	// http.StatusText(400) => "Bad Request" => "BAD_REQUEST"
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// field names the offending request field and may be empty (duplicates,
// unreadable bodies).
func NewBadRequestError(message, field string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusBadRequest),
		Message: message,
		Status:  http.StatusBadRequest,
		Field:   field,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusNotFound),
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewMethodNotAllowedError creates a 405 Method Not Allowed HTTPError.
func NewMethodNotAllowedError() *HTTPError {
	return &HTTPError{
		Code:    codeFor(http.StatusMethodNotAllowed),
		Message: http.StatusText(http.StatusMethodNotAllowed),
		Status:  http.StatusMethodNotAllowed,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// message is what the client reads. The real cause goes into Details via
// WithDetails and is only shown outside production.
func NewInternalServerError(message string) *HTTPError {
	if message == "" {
		message = http.StatusText(http.StatusInternalServerError)
	}
	return &HTTPError{
		Code:    codeFor(http.StatusInternalServerError),
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// NewConfigurationError creates the 500 returned while required
// configuration is missing. The message itself is the guidance, so it is
// never stripped.
func NewConfigurationError(message string) *HTTPError {
	return &HTTPError{
		Code:    "CONFIGURATION_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures..
// (e.g. HTTPError for API responses)..
// to ensure the client receive meaningful, actionable, and consistent..
// error messages.
//
// - Return consistent error shapes to API clients (JSON).
// - Support field attribution for validation failures.
// - Support suggestions the client can show next to the message.
// - Provide errors that play nicely with Go's standard errors package.
package errs

import "strings"

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error().
// It is designed to be serialized directly to JSON:
//
//	{ "code": "BAD_REQUEST", "error": "Phone number must be at least 5 digits", "field": "number" }
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message, serialized as "error".
//   - Status: HTTP status code, not serialized.
//   - Field: offending request field, for validation failures.
//   - Details: diagnostic text of the underlying error. The global error
//     handler strips it in production.
//   - Suggestion: what the client could do about it.
//   - Success: set to false by endpoints whose clients expect an explicit flag.
type HTTPError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	Status     int    `json:"-"`
	Field      string `json:"field,omitempty"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Success    *bool  `json:"success,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
//
// Here it returns the Message, so printing/logging the error shows the message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is customizes how errors.Is(...) treats HTTPError.
//
// This implementation returns true if `target` is also a *HTTPError.
// It does NOT compare Code/Status/etc.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// clone returns a shallow copy, so the With* helpers never mutate a shared
// template error.
func (e *HTTPError) clone() *HTTPError {
	cp := *e
	return &cp
}

// WithDetails returns a copy carrying the diagnostic text of err.
func (e *HTTPError) WithDetails(err error) *HTTPError {
	cp := e.clone()
	if err != nil {
		cp.Details = err.Error()
	}
	return cp
}

// WithSuggestion returns a copy carrying a suggestion for the client.
func (e *HTTPError) WithSuggestion(suggestion string) *HTTPError {
	cp := e.clone()
	cp.Suggestion = suggestion
	return cp
}

// AsFailure returns a copy that serializes `"success": false`.
func (e *HTTPError) AsFailure() *HTTPError {
	cp := e.clone()
	failed := false
	cp.Success = &failed
	return cp
}

// Public returns a copy safe to show in production: no diagnostic details.
func (e *HTTPError) Public() *HTTPError {
	cp := e.clone()
	cp.Details = ""
	return cp
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
//
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

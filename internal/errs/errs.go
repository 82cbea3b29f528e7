// Package errs defines the error body every endpoint answers with.
//
// Services return their own domain errors. Handlers translate those into an
// *HTTPError, and the global error handler writes it as JSON, so clients get
// the same {code, error, field, details, suggestion} shape everywhere.
package errs

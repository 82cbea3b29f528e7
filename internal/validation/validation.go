// Package validation binds request bodies and checks values with the
// `validator` library.
//
// It registers the contact name rule, accepts loosely typed JSON input
// (Text) and reduces validator errors to the first offending field so the
// client gets one actionable message.
package validation

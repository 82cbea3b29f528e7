package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// remoteEnvNames maps RemoteConfig fields to the variables that feed them,
// so a ConfigurationError can tell operators exactly what to set.
var remoteEnvNames = map[string]string{
	"Token":    "REMOTE_TOKEN",
	"Owner":    "REMOTE_OWNER",
	"Repo":     "REMOTE_REPO",
	"Branch":   "REMOTE_BRANCH",
	"FilePath": "REMOTE_FILE_PATH",
	"APIURL":   "REMOTE_API_URL",
}

// ConfigurationError reports required configuration that is missing or
// invalid. It is always fatal for the request and is raised before any
// remote call is attempted.
type ConfigurationError struct {
	// Missing lists the offending environment variable names.
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf(
		"Missing remote store configuration (%s). Set REMOTE_TOKEN, REMOTE_OWNER, REMOTE_REPO (and optionally REMOTE_BRANCH, REMOTE_FILE_PATH).",
		strings.Join(e.Missing, ", "),
	)
}

// Validate checks that the remote store can be addressed.
// It returns a *ConfigurationError or nil.
func (r RemoteConfig) Validate() error {
	err := validator.New().Struct(r)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &ConfigurationError{Missing: []string{err.Error()}}
	}

	missing := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		name, ok := remoteEnvNames[fe.StructField()]
		if !ok {
			name = fe.StructField()
		}
		missing = append(missing, name)
	}

	return &ConfigurationError{Missing: missing}
}

// CheckStore returns the ConfigurationError requests must fail with, if any.
func (c *Config) CheckStore() error {
	if !c.RemoteRequired() {
		return nil
	}
	return c.Remote.Validate()
}

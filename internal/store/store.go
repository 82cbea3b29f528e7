// Package store wraps the remote file host used as the registry's only
// persistence mechanism.
//
// The host is treated as a versioned key-value blob store: a file is read
// together with an opaque revision, and a write must name the revision it
// replaces. The host rejects writes naming a stale revision; that rejection
// is the only cross-request coordination in the system.
package store

import (
	"context"
	"fmt"

	"github.com/deppfellow/contactbook/internal/config"
	"github.com/rs/zerolog"
)

// Revision is the opaque version token of a stored file (a git blob SHA on
// GitHub). The zero value means "no prior version".
type Revision string

// IsZero reports whether r names no version.
func (r Revision) IsZero() bool { return r == "" }

// FetchResult is the outcome of a Fetch.
// Revision and Content are only meaningful when Exists is true.
type FetchResult struct {
	Exists   bool
	Revision Revision
	Content  []byte
}

// WriteRequest describes a new version of a file.
type WriteRequest struct {
	Path   string
	Branch string

	// Content is the plain file content; backends take care of any wire
	// encoding.
	Content []byte

	// Revision must be the revision last fetched when the file exists and
	// zero when it is being created.
	Revision Revision

	// Message is the commit message. The remote store is version-controlled,
	// so it doubles as the audit trail.
	Message string
}

// WriteResult confirms a successful write.
type WriteResult struct {
	Revision Revision
	Commit   string
}

// BlobStore is the byte-storage abstraction used by the contact repository.
type BlobStore interface {
	// Fetch reads path at ref. A missing file is FetchResult{Exists: false}
	// with a nil error.
	Fetch(ctx context.Context, path, ref string) (FetchResult, error)

	// Write stores a new version. Every successful write creates a new,
	// permanent revision; there is no undo.
	Write(ctx context.Context, req WriteRequest) (WriteResult, error)
}

// New builds the BlobStore selected by cfg.Store.Backend.
//
// For the github backend the remote config must be complete; callers check
// cfg.CheckStore first and keep serving ConfigurationError when it is not.
func New(cfg *config.Config, logger *zerolog.Logger) (BlobStore, error) {
	switch cfg.Store.Backend {
	case config.BackendGitHub:
		if err := cfg.Remote.Validate(); err != nil {
			return nil, err
		}
		logger.Info().
			Str("owner", cfg.Remote.Owner).
			Str("repo", cfg.Remote.Repo).
			Str("branch", cfg.Remote.Branch).
			Str("path", cfg.Remote.FilePath).
			Msg("using github blob store")
		return NewGitHub(cfg.Remote, nil)
	case config.BackendMemory:
		logger.Warn().Msg("using in-memory blob store (development only, data is lost on restart)")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Store.Backend)
	}
}

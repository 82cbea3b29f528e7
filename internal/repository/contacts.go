package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/contactbook/internal/model"
	"github.com/deppfellow/contactbook/internal/store"
)

// Location addresses the registry file.
type Location struct {
	Path   string
	Branch string
}

// Snapshot is one read of the registry file. It carries the revision from
// Load to Save so a write can only replace exactly what was read.
type Snapshot struct {
	Registry model.Registry
	Revision store.Revision
	Exists   bool
	State    model.State
}

// ContactRepository reads and writes the registry file through a BlobStore.
// It holds no registry state between calls.
type ContactRepository struct {
	store    store.BlobStore
	location Location
}

func NewContactRepository(blobs store.BlobStore, location Location) *ContactRepository {
	return &ContactRepository{store: blobs, location: location}
}

// Load fetches and decodes the registry.
//
// A missing file and unusable content both produce an empty registry. The
// latter is logged through the logger carried by ctx (zerolog.Ctx).
func (r *ContactRepository) Load(ctx context.Context) (*Snapshot, error) {
	result, err := r.store.Fetch(ctx, r.location.Path, r.location.Branch)
	if err != nil {
		return nil, errors.Wrap(err, "load registry")
	}

	if !result.Exists {
		return &Snapshot{Registry: model.Empty(), State: model.StateEmpty}, nil
	}

	decoded := model.Decode(result.Content)
	if decoded.State == model.StateMalformed {
		zerolog.Ctx(ctx).Warn().
			Err(decoded.Err).
			Str("path", r.location.Path).
			Str("revision", string(result.Revision)).
			Msg("stored registry is malformed, treating it as empty")
	}

	return &Snapshot{
		Registry: decoded.Registry,
		Revision: result.Revision,
		Exists:   true,
		State:    decoded.State,
	}, nil
}

// Save writes snapshot.Registry back, asserting the snapshot revision.
// A stale revision surfaces as a store.RemoteStoreError (see store.IsConflict)
// and leaves the stored file untouched.
func (r *ContactRepository) Save(ctx context.Context, snapshot *Snapshot, message string) (store.WriteResult, error) {
	content, err := model.Encode(snapshot.Registry)
	if err != nil {
		return store.WriteResult{}, errors.Wrap(err, "encode registry")
	}

	result, err := r.store.Write(ctx, store.WriteRequest{
		Path:     r.location.Path,
		Branch:   r.location.Branch,
		Content:  content,
		Revision: snapshot.Revision,
		Message:  message,
	})
	if err != nil {
		return store.WriteResult{}, errors.Wrap(err, "save registry")
	}

	return result, nil
}

// Package repository handles all interactions with the registry file.
//
// It turns the raw bytes of the blob store into a decoded registry and back,
// abstracting the storage format away from the service layer.
//
// Every repository is stateless: a read returns a Snapshot, and the
// snapshot is what a later write is checked against.
package repository

import (
	"github.com/deppfellow/contactbook/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Contacts *ContactRepository
}

// NewRepositories constructs the repository container.
//
// s.Store may be nil while the remote configuration is incomplete; services
// check s.StoreErr before touching a repository.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Contacts: NewContactRepository(s.Store, Location{
			Path:   s.Config.Remote.FilePath,
			Branch: s.Config.Remote.Branch,
		}),
	}
}

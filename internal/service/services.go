// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives bound data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/contactbook/internal/lib/vcf"
	"github.com/deppfellow/contactbook/internal/repository"
	"github.com/deppfellow/contactbook/internal/server"
)

type Services struct {
	Contacts *ContactService
	Export   *ExportService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	renderer := vcf.Encoder{Attribution: s.Config.Export.Attribution}

	return &Services{
		Contacts: NewContactService(s, repos.Contacts),
		Export:   NewExportService(s, repos.Contacts, renderer),
	}, nil
}

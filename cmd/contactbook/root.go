package main

import (
	"github.com/spf13/cobra"

	"github.com/deppfellow/contactbook/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	serve := newServeCmd(cfg)

	cmd := &cobra.Command{
		Use:           "contactbook",
		Short:         "Contact registry stored in a GitHub repository, with vCard export",
		SilenceUsage:  true,
		SilenceErrors: true,

		// Running without a subcommand starts the service.
		RunE: serve.RunE,
	}

	cmd.AddCommand(
		serve,
		newListCmd(cfg),
		newExportCmd(cfg),
	)

	return cmd
}

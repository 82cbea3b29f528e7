package main

import (
	"github.com/spf13/cobra"

	"github.com/deppfellow/contactbook/internal/config"
	"github.com/deppfellow/contactbook/internal/lib/utils"
)

func newListCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every stored contact as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := newOfflineApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			list, err := a.services.Contacts.List(log.WithContext(cmd.Context()))
			if err != nil {
				return err
			}

			return utils.WriteJSON(cmd.OutOrStdout(), list)
		},
	}
}

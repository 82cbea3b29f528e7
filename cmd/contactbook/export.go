package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/deppfellow/contactbook/internal/config"
	"github.com/deppfellow/contactbook/internal/service"
)

func newExportCmd(cfg *config.Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored contact as a vCard document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := newOfflineApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			result, err := a.services.Export.Export(log.WithContext(cmd.Context()))
			if err != nil {
				var notFound *service.NotFoundError
				if errors.As(err, &notFound) {
					return errors.Errorf("%s %s", notFound.Message, notFound.Suggestion)
				}
				return err
			}

			if err := writeOutput(cmd, output, result.Data); err != nil {
				return err
			}

			log.Info().
				Int("total", result.Total).
				Int("skipped", result.Skipped).
				Str("output", output).
				Msg("contacts exported")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to `file` instead of stdout")

	return cmd
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"medshift/internal/logging"
	"medshift/internal/pipeline"
	"medshift/internal/report"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the migration pipeline",
		Long: "Load the legacy source CSVs, validate and transform every record, " +
			"persist accepted records to the target CSVs and SQLite export, write " +
			"failure exports for rejected records, and reconcile source against target.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			rep, err := pipeline.Run(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			if !quiet {
				out := cmd.OutOrStdout()
				report.Render(out, rep, isTerminal(out))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the rendered report summary")
	return cmd
}

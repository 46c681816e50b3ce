package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medshift/internal/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the reconciliation report from the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path := cfg.ReportPath()
			out := cmd.OutOrStdout()

			if asJSON {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read report: %w (run `medshift run` first)", err)
				}
				_, err = out.Write(data)
				return err
			}

			if err := report.RenderFile(out, path, isTerminal(out)); err != nil {
				return fmt.Errorf("%w (run `medshift run` first)", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw report JSON")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"listwise/internal/preflight"
	"listwise/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, ffprobe, credentials and the listing API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			failed := 0
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if preflight.Failed(results) {
				return services.Wrap(services.ErrConfiguration, "doctor", "preflight",
					fmt.Sprintf("%d of %d checks failed", failed, len(results)), nil)
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

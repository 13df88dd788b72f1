package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voiceforge/internal/deps"
	"voiceforge/internal/services/fishtts"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that external tools and the synthesis server are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			rows := make([][]string, 0, 3)
			missingRequired := false
			for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
				state := "ok"
				if !status.Available {
					if status.Optional {
						state = "missing (optional)"
					} else {
						state = "missing"
						missingRequired = true
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				rows = append(rows, []string{status.Name, status.Command, state, detail})
			}

			tts := fishtts.NewClient(fishtts.Config{
				BaseURL:              cfg.TTS.URL,
				TimeoutSeconds:       cfg.TTS.TimeoutSeconds,
				HealthTimeoutSeconds: cfg.TTS.HealthTimeoutSeconds,
				Format:               cfg.TTS.Format,
			}, fishtts.WithLogger(logger))
			if tts.Available(cmd.Context()) {
				rows = append(rows, []string{"TTS server", cfg.TTS.URL, "ok", "clones the reference voice"})
			} else {
				rows = append(rows, []string{"TTS server", cfg.TTS.URL, "unreachable", "start the synthesis server"})
				missingRequired = true
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Status", "Detail"}, rows))
			if missingRequired {
				return fmt.Errorf("required dependencies are missing")
			}
			fmt.Fprintln(out, "All required dependencies are available.")
			return nil
		},
	}
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"voiceforge/internal/services/separator"
)

func newSeparateCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "separate <audio-file>",
		Short: "Strip background music from an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			dir := outputDir
			if dir == "" {
				dir = cfg.SeparatedDir()
			}

			client := separator.NewCLI(
				separator.WithBinary(cfg.Separator.Command),
				separator.WithModel(cfg.Separator.Model),
				separator.WithTimeout(time.Duration(cfg.Separator.TimeoutSeconds)*time.Second),
				separator.WithLogger(logger),
			)
			cleaned, err := client.Separate(cmd.Context(), args[0], dir)
			if err != nil {
				return fmt.Errorf("separating vocals: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cleaned)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the cleaned file (default: <cache_dir>/separated)")
	return cmd
}

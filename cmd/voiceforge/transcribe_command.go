package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voiceforge/internal/asr"
	"voiceforge/internal/language"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		lang    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an audio file, using the transcript cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			if !language.Supported(lang) {
				return fmt.Errorf("unsupported language %q (choose from %s)", lang, strings.Join(language.Codes(), ", "))
			}

			recognizer := asr.NewCLI(
				asr.WithBinary(cfg.ASR.Command),
				asr.WithModel(cfg.ASR.Model),
				asr.WithTimeout(time.Duration(cfg.ASR.TimeoutSeconds)*time.Second),
				asr.WithLogger(logger),
			)

			var text string
			if noCache {
				text, err = recognizer.Transcribe(cmd.Context(), args[0], lang)
			} else {
				cache := asr.NewCache(cfg.TranscriptCacheDir(), logger)
				text, err = cache.Transcribe(cmd.Context(), recognizer, args[0], lang)
			}
			if err != nil {
				return fmt.Errorf("transcribing %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "ja", "Language code (ja, en, ko)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the transcript cache and force recognition")
	return cmd
}

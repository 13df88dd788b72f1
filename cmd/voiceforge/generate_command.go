package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voiceforge/internal/asr"
	"voiceforge/internal/history"
	"voiceforge/internal/language"
	"voiceforge/internal/pipeline"
	"voiceforge/internal/services/fishtts"
	"voiceforge/internal/services/separator"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		refAudio       string
		linesPath      string
		packName       string
		lang           string
		outputDir      string
		separateVocals bool
		ttsURL         string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a voice pack from a reference clip and a line catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			if !language.Supported(lang) {
				return fmt.Errorf("unsupported language %q (choose from %s)", lang, strings.Join(language.Codes(), ", "))
			}

			if ttsURL != "" {
				cfg.TTS.URL = strings.TrimRight(strings.TrimSpace(ttsURL), "/")
			}

			tts := fishtts.NewClient(fishtts.Config{
				BaseURL:              cfg.TTS.URL,
				TimeoutSeconds:       cfg.TTS.TimeoutSeconds,
				HealthTimeoutSeconds: cfg.TTS.HealthTimeoutSeconds,
				Format:               cfg.TTS.Format,
			}, fishtts.WithLogger(logger))

			recognizer := asr.NewCLI(
				asr.WithBinary(cfg.ASR.Command),
				asr.WithModel(cfg.ASR.Model),
				asr.WithTimeout(time.Duration(cfg.ASR.TimeoutSeconds)*time.Second),
				asr.WithLogger(logger),
			)

			sep := separator.NewCLI(
				separator.WithBinary(cfg.Separator.Command),
				separator.WithModel(cfg.Separator.Model),
				separator.WithTimeout(time.Duration(cfg.Separator.TimeoutSeconds)*time.Second),
				separator.WithLogger(logger),
			)

			var store *history.Store
			if cfg.History.Enabled {
				store, err = history.Open(cfg.History.Path)
				if err != nil {
					logger.Warn("history ledger unavailable", "error", err)
				} else {
					defer store.Close()
				}
			}

			gen, err := pipeline.New(cfg, pipeline.Deps{
				Logger:      logger,
				TTS:         tts,
				Recognizer:  recognizer,
				Transcripts: asr.NewCache(cfg.TranscriptCacheDir(), logger),
				Separator:   sep,
				History:     store,
				Output:      cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			result, err := gen.Run(cmd.Context(), pipeline.Request{
				RefAudio:       refAudio,
				CatalogPath:    linesPath,
				PackName:       packName,
				Language:       lang,
				OutputDir:      outputDir,
				SeparateVocals: separateVocals,
			})
			if err != nil {
				if errors.Is(err, pipeline.ErrBackendUnavailable) {
					return fmt.Errorf("synthesis backend is not reachable at %s\n  Start the TTS server first. See docs/voice-clone-guide.md", cfg.TTS.URL)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nDone! Pack %q -> %s\n", packName, result.PackDir)
			fmt.Fprintf(out, "  %d generated, %d cached, %d failed\n", result.Generated, result.Cached, result.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&refAudio, "ref-audio", "", "Path to reference audio file (mp3/wav/flac)")
	cmd.Flags().StringVar(&linesPath, "lines", "", "Path to line catalog JSON (category -> list of strings)")
	cmd.Flags().StringVar(&packName, "pack-name", "", "Pack name (used as folder name)")
	cmd.Flags().StringVar(&lang, "lang", "ja", "Language code (ja, en, ko)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default: <packs_root>/<pack-name>)")
	cmd.Flags().BoolVar(&separateVocals, "separate-vocals", false, "Run BGM separation on the reference audio first")
	cmd.Flags().StringVar(&ttsURL, "tts-url", "", "Synthesis server base URL override")
	_ = cmd.MarkFlagRequired("ref-audio")
	_ = cmd.MarkFlagRequired("lines")
	_ = cmd.MarkFlagRequired("pack-name")

	return cmd
}

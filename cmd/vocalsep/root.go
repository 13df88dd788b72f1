package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"voiceforge/internal/fileutil"
)

// commandContext builds the external separator process. Tests replace it to
// avoid depending on an installed audio-separator.
var commandContext = exec.CommandContext

func newRootCommand() *cobra.Command {
	var (
		model     string
		separator string
	)

	cmd := &cobra.Command{
		Use:           "vocalsep <audio-file> <output-dir>",
		Short:         "Isolate vocals from an audio file using audio-separator",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], args[1], separator, model)
		},
	}

	cmd.Flags().StringVar(&model, "model", "model_bs_roformer_ep_317_sdr_12.9755.ckpt", "Separation model checkpoint")
	cmd.Flags().StringVar(&separator, "separator-command", "audio-separator", "Separator executable to invoke")
	return cmd
}

// run isolates vocals from inputPath into outputDir and prints the path of the
// cleaned file as the final line on stdout. All diagnostics go to stderr so
// callers can treat the last stdout line as the result.
func run(cmd *cobra.Command, inputPath, outputDir, separatorBin, model string) error {
	input, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	if !fileutil.FileExists(input) {
		return fmt.Errorf("input file not found: %s", input)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	target := filepath.Join(outputDir, fileutil.Stem(input)+".wav")
	if fileutil.FileExists(target) {
		fmt.Fprintf(cmd.ErrOrStderr(), "cached: %s\n", target)
		fmt.Fprintln(cmd.OutOrStdout(), target)
		return nil
	}

	before, err := listAudioFiles(outputDir)
	if err != nil {
		return err
	}

	proc := commandContext(cmd.Context(), separatorBin, input,
		"-m", model,
		"--output_dir", outputDir,
		"--output_format", "wav",
	)
	proc.Stdout = cmd.ErrOrStderr()
	proc.Stderr = cmd.ErrOrStderr()
	if err := proc.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", separatorBin, err)
	}

	after, err := listAudioFiles(outputDir)
	if err != nil {
		return err
	}
	produced := newFiles(before, after)
	if len(produced) == 0 {
		return fmt.Errorf("%s reported success but produced no output in %s", separatorBin, outputDir)
	}

	vocal := pickVocalStem(produced)
	if err := os.Rename(filepath.Join(outputDir, vocal), target); err != nil {
		return fmt.Errorf("rename vocal stem: %w", err)
	}
	for _, name := range produced {
		if name == vocal {
			continue
		}
		if err := os.Remove(filepath.Join(outputDir, name)); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not remove stem %s: %v\n", name, err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), target)
	return nil
}

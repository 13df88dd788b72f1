package separator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"voiceforge/internal/fileutil"
	"voiceforge/internal/logging"
	"voiceforge/internal/services"
)

var commandContext = exec.CommandContext

// Client defines vocal separation behaviour.
type Client interface {
	Separate(ctx context.Context, inputPath, outputDir string) (string, error)
}

// SeparationError reports a failed run of the separation process.
type SeparationError struct {
	ExitCode int
	Stderr   string
}

func (e *SeparationError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("vocal separation failed (exit %d)", e.ExitCode)
	}
	return fmt.Sprintf("vocal separation failed (exit %d): %s", e.ExitCode, e.Stderr)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default wrapper binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithModel selects the separation model checkpoint.
func WithModel(model string) Option {
	return func(c *CLI) {
		c.model = model
	}
}

// WithLogger attaches a logger for subprocess diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		c.logger = logging.NewComponentLogger(logger, "separator")
	}
}

// WithTimeout bounds each separation run. Zero means no bound beyond the
// caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		c.timeout = timeout
	}
}

// CLI wraps the isolated vocal-separation wrapper binary. The separation
// model runs in its own environment; this process only ever exchanges paths
// and diagnostics with it.
type CLI struct {
	binary  string
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "vocalsep", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Separate produces a vocals-only version of inputPath inside outputDir and
// returns its path. If outputDir already holds <inputStem>.wav the cached
// file is returned without spawning the subprocess.
func (c *CLI) Separate(ctx context.Context, inputPath, outputDir string) (string, error) {
	if inputPath == "" {
		return "", errors.New("input path required")
	}
	if outputDir == "" {
		return "", errors.New("output directory required")
	}

	cleaned := filepath.Join(outputDir, fileutil.Stem(inputPath)+".wav")
	if fileutil.FileExists(cleaned) {
		c.logger.Debug("using cached separation", logging.String("path", cleaned))
		return cleaned, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{inputPath, outputDir}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}

	var stdout, stderr bytes.Buffer
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	runArgs := services.LoggerArgs(ctx)
	for _, line := range strings.Split(strings.TrimSpace(stderr.String()), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			c.logger.Info(line, runArgs...)
		}
	}

	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &SeparationError{ExitCode: exitCode, Stderr: tail(stderr.String())}
	}

	outPath := lastLine(stdout.String())
	if outPath == "" {
		return "", &SeparationError{Stderr: "separation produced no output path"}
	}
	if !fileutil.FileExists(outPath) {
		return "", &SeparationError{Stderr: fmt.Sprintf("expected output not found: %s", outPath)}
	}
	return outPath, nil
}

// lastLine returns the final non-empty line; the wrapper prints the cleaned
// path there.
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

func tail(output string) string {
	trimmed := strings.TrimSpace(output)
	const max = 500
	if len(trimmed) > max {
		return trimmed[len(trimmed)-max:]
	}
	return trimmed
}

var _ Client = (*CLI)(nil)

package asr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"voiceforge/internal/language"
	"voiceforge/internal/logging"
)

var commandContext = exec.CommandContext

// Recognizer produces a transcript for an audio file.
type Recognizer interface {
	Transcribe(ctx context.Context, audioPath, languageCode string) (string, error)
}

// Option configures the CLI recognizer.
type Option func(*CLI)

// WithBinary overrides the default ASR command name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithModel selects the ASR model identifier passed to the command.
func WithModel(model string) Option {
	return func(c *CLI) {
		c.model = model
	}
}

// WithLogger attaches a logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		c.logger = logging.NewComponentLogger(logger, "asr")
	}
}

// WithTimeout bounds each transcription run. Zero means no bound beyond the
// caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		c.timeout = timeout
	}
}

// CLI runs an external ASR command to transcribe audio. The command is
// resolved once per process and reused, mirroring a model handle that is
// loaded lazily and kept for the process lifetime.
type CLI struct {
	binary  string
	model   string
	timeout time.Duration
	logger  *slog.Logger

	resolveOnce  sync.Once
	resolvedPath string
	resolveErr   error
}

// NewCLI constructs a recognizer using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "qwen3-asr", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

func (c *CLI) resolve() (string, error) {
	c.resolveOnce.Do(func() {
		c.resolvedPath, c.resolveErr = exec.LookPath(c.binary)
		if c.resolveErr == nil {
			c.logger.Debug("resolved ASR command",
				logging.String("path", c.resolvedPath),
				logging.String("model", c.model))
		}
	})
	return c.resolvedPath, c.resolveErr
}

// Transcribe runs the ASR command against audioPath. The short language code
// is translated to the full name the backend expects; unrecognized codes are
// passed through as-is.
func (c *CLI) Transcribe(ctx context.Context, audioPath, languageCode string) (string, error) {
	if audioPath == "" {
		return "", errors.New("audio path required")
	}

	bin, err := c.resolve()
	if err != nil {
		return "", fmt.Errorf("locate ASR command %q: %w", c.binary, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var args []string
	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	if languageCode != "" {
		args = append(args, "--language", language.ASRName(languageCode))
	}
	args = append(args, audioPath)

	var stdout, stderr bytes.Buffer
	cmd := commandContext(ctx, bin, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("transcribe %s: %w: %s", audioPath, err, detail)
		}
		return "", fmt.Errorf("transcribe %s: %w", audioPath, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

var _ Recognizer = (*CLI)(nil)

package fishtts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"voiceforge/internal/fileutil"
	"voiceforge/internal/logging"
	"voiceforge/internal/services"
)

const (
	healthPath         = "/v1/health"
	ttsPath            = "/v1/tts"
	contentTypeMsgpack = "application/msgpack"

	defaultTimeout       = 300 * time.Second
	defaultHealthTimeout = 3 * time.Second
	defaultFormat        = "wav"
)

// Service defines the synthesis operations the pipeline needs.
type Service interface {
	Available(ctx context.Context) bool
	Generate(ctx context.Context, req GenerateRequest) error
}

// GenerateRequest describes one clip synthesis.
type GenerateRequest struct {
	Text         string
	Language     string
	RefAudioPath string
	RefText      string
	OutputPath   string
}

// SynthesisError reports a failed synthesis call.
type SynthesisError struct {
	StatusCode int
	Body       string
}

func (e *SynthesisError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("synthesis returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("synthesis returned status %d: %s", e.StatusCode, e.Body)
}

// Config captures the runtime settings for the synthesis server.
type Config struct {
	BaseURL              string
	TimeoutSeconds       int
	HealthTimeoutSeconds int
	Format               string
}

// HTTPDoer describes the HTTP client used by the synthesis service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "fishtts")
	}
}

// Client wraps the Fish-Speech style voice-cloning HTTP API. The wire body
// is a msgpack map carrying the raw reference audio bytes alongside the
// target text.
type Client struct {
	cfg           Config
	httpClient    HTTPDoer
	logger        *slog.Logger
	timeout       time.Duration
	healthTimeout time.Duration
}

// NewClient constructs a synthesis client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	healthTimeout := defaultHealthTimeout
	if cfg.HealthTimeoutSeconds > 0 {
		healthTimeout = time.Duration(cfg.HealthTimeoutSeconds) * time.Second
	}
	if cfg.Format == "" {
		cfg.Format = defaultFormat
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	client := &Client{
		cfg:           cfg,
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logging.NewNop(),
		timeout:       timeout,
		healthTimeout: healthTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns the configured endpoint, for diagnostics.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Available probes the health endpoint. Connection or timeout failures map
// to false; this never returns an error past the boundary.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+healthPath, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("health probe failed", append(services.LoggerArgs(ctx), logging.Error(err))...)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

type reference struct {
	Audio []byte `msgpack:"audio"`
	Text  string `msgpack:"text"`
}

type ttsRequest struct {
	Text       string      `msgpack:"text"`
	References []reference `msgpack:"references"`
	Format     string      `msgpack:"format"`
	Streaming  bool        `msgpack:"streaming"`
}

// Generate synthesizes one clip, cloning the voice of the reference audio,
// and writes the result to req.OutputPath. The output file appears only on
// success; a transport failure leaves no partial file behind.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) error {
	if req.Text == "" {
		return errors.New("text required")
	}
	if req.OutputPath == "" {
		return errors.New("output path required")
	}

	refBytes, err := os.ReadFile(req.RefAudioPath)
	if err != nil {
		return fmt.Errorf("read reference audio: %w", err)
	}

	payload, err := msgpack.Marshal(ttsRequest{
		Text:       req.Text,
		References: []reference{{Audio: refBytes, Text: req.RefText}},
		Format:     c.cfg.Format,
		Streaming:  false,
	})
	if err != nil {
		return fmt.Errorf("encode synthesis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+ttsPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build synthesis request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentTypeMsgpack)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call synthesis endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read synthesis response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &SynthesisError{StatusCode: resp.StatusCode, Body: trimBody(body)}
	}

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := fileutil.WriteFileAtomic(req.OutputPath, body, 0o644); err != nil {
		return fmt.Errorf("write clip: %w", err)
	}
	return nil
}

func trimBody(body []byte) string {
	const max = 300
	text := strings.TrimSpace(string(body))
	if len(text) > max {
		return text[:max]
	}
	return text
}

var _ Service = (*Client)(nil)

package asr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"voiceforge/internal/fileutil"
	"voiceforge/internal/logging"
)

// Cache persists reference transcripts as plain text files keyed by
// language subdirectory and audio file stem.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// NewCache creates a transcript cache rooted at dir.
func NewCache(dir string, logger *slog.Logger) *Cache {
	return &Cache{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "transcripts"),
	}
}

// Path returns the cache file location for the given audio and language.
func (c *Cache) Path(audioPath, languageCode string) string {
	dir := c.dir
	if languageCode != "" {
		dir = filepath.Join(dir, languageCode)
	}
	return filepath.Join(dir, fileutil.Stem(audioPath)+".txt")
}

// Lookup returns the cached transcript if present and non-empty. An empty
// cache file counts as a miss so a failed transcription is re-attempted.
func (c *Cache) Lookup(audioPath, languageCode string) (string, bool) {
	data, err := os.ReadFile(c.Path(audioPath, languageCode))
	if err != nil {
		return "", false
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", false
	}
	return text, true
}

// Store persists a transcript for the given audio and language.
func (c *Cache) Store(audioPath, languageCode, text string) error {
	path := c.Path(audioPath, languageCode)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create transcript cache dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write transcript cache: %w", err)
	}
	return nil
}

// Transcribe returns the cached transcript for (audioPath, languageCode), or
// runs rec and caches whatever it produces. Model load dominates the cost of
// a transcription, so the hit path never touches the recognizer.
func (c *Cache) Transcribe(ctx context.Context, rec Recognizer, audioPath, languageCode string) (string, error) {
	if text, ok := c.Lookup(audioPath, languageCode); ok {
		c.logger.Debug("cached transcript", logging.String("path", c.Path(audioPath, languageCode)))
		return text, nil
	}

	text, err := rec.Transcribe(ctx, audioPath, languageCode)
	if err != nil {
		return "", err
	}

	if err := c.Store(audioPath, languageCode, text); err != nil {
		return "", err
	}
	c.logger.Debug("saved transcript", logging.String("path", c.Path(audioPath, languageCode)))
	return text, nil
}

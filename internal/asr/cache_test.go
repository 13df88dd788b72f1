package asr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"voiceforge/internal/logging"
)

type stubRecognizer struct {
	text  string
	err   error
	calls int
}

func (s *stubRecognizer) Transcribe(ctx context.Context, audioPath, languageCode string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestCacheMissTranscribesAndStores(t *testing.T) {
	cache := NewCache(t.TempDir(), logging.NewNop())
	rec := &stubRecognizer{text: "こんにちは"}

	text, err := cache.Transcribe(context.Background(), rec, "/audio/ref.wav", "ja")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "こんにちは" {
		t.Fatalf("unexpected transcript %q", text)
	}
	if rec.calls != 1 {
		t.Fatalf("expected one recognizer call, got %d", rec.calls)
	}

	data, err := os.ReadFile(cache.Path("/audio/ref.wav", "ja"))
	if err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	if string(data) != "こんにちは" {
		t.Fatalf("cache content %q", data)
	}
}

func TestCacheHitSkipsRecognizer(t *testing.T) {
	cache := NewCache(t.TempDir(), logging.NewNop())
	rec := &stubRecognizer{text: "first"}

	if _, err := cache.Transcribe(context.Background(), rec, "ref.wav", "en"); err != nil {
		t.Fatal(err)
	}
	rec.text = "second"
	text, err := cache.Transcribe(context.Background(), rec, "ref.wav", "en")
	if err != nil {
		t.Fatal(err)
	}
	if text != "first" {
		t.Fatalf("expected cached transcript, got %q", text)
	}
	if rec.calls != 1 {
		t.Fatalf("recognizer called %d times, want 1", rec.calls)
	}
}

func TestCacheEmptyEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(dir, logging.NewNop())

	// A previous run cached an empty transcript; it must be retried.
	path := cache.Path("ref.wav", "ja")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &stubRecognizer{text: "retry"}
	text, err := cache.Transcribe(context.Background(), rec, "ref.wav", "ja")
	if err != nil {
		t.Fatal(err)
	}
	if text != "retry" || rec.calls != 1 {
		t.Fatalf("empty cache entry should be treated as a miss (text=%q calls=%d)", text, rec.calls)
	}
}

func TestCacheKeyIncludesLanguage(t *testing.T) {
	cache := NewCache("/cache", logging.NewNop())
	if got := cache.Path("/audio/ref clip.mp3", "ja"); got != filepath.Join("/cache", "ja", "ref clip.txt") {
		t.Fatalf("unexpected cache path %q", got)
	}
	if got := cache.Path("ref.wav", ""); got != filepath.Join("/cache", "ref.txt") {
		t.Fatalf("unexpected cache path without language %q", got)
	}
}

func TestCachePropagatesRecognizerError(t *testing.T) {
	cache := NewCache(t.TempDir(), logging.NewNop())
	rec := &stubRecognizer{err: errors.New("boom")}
	if _, err := cache.Transcribe(context.Background(), rec, "ref.wav", "ja"); err == nil {
		t.Fatal("expected error")
	}
	if _, ok := cache.Lookup("ref.wav", "ja"); ok {
		t.Fatal("failed transcription must not be cached")
	}
}

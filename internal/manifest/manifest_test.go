package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFillsIdentity(t *testing.T) {
	m := New(Identity{
		Name:     "my_character",
		Version:  "1.0.0",
		Author:   "voice-clone-generator",
		License:  "personal-use",
		Language: "ja",
	})
	if m.CESPVersion != "1.0" {
		t.Fatalf("cesp_version %q", m.CESPVersion)
	}
	if m.DisplayName != "my_character" {
		t.Fatalf("display name should fall back to name, got %q", m.DisplayName)
	}
	if m.Categories == nil {
		t.Fatal("categories map must be initialized")
	}
}

func TestAddSoundPreservesOrder(t *testing.T) {
	m := New(Identity{Name: "demo"})
	m.AddSound("task.complete", Sound{File: "sounds/TaskDone1.wav", Label: "a"})
	m.AddSound("task.complete", Sound{File: "sounds/TaskDone2.wav", Label: "b"})

	sounds := m.Categories["task.complete"].Sounds
	if len(sounds) != 2 {
		t.Fatalf("expected 2 sounds, got %d", len(sounds))
	}
	if sounds[0].File != "sounds/TaskDone1.wav" || sounds[1].File != "sounds/TaskDone2.wav" {
		t.Fatalf("order not preserved: %+v", sounds)
	}
	if m.SoundCount() != 2 {
		t.Fatalf("SoundCount = %d", m.SoundCount())
	}
}

func TestEnsureCategoryWritesEmptySoundsList(t *testing.T) {
	m := New(Identity{Name: "demo"})
	m.EnsureCategory("task.error")
	m.EnsureCategory("task.error")
	if len(m.Categories["task.error"].Sounds) != 0 {
		t.Fatalf("expected no sounds, got %+v", m.Categories["task.error"].Sounds)
	}

	path := filepath.Join(t.TempDir(), FileName)
	if err := Write(path, m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"sounds": []`) {
		t.Fatalf("empty category must serialize as an empty list, got:\n%s", data)
	}

	m.AddSound("task.error", Sound{File: "sounds/TaskError1.wav", Label: "x", SHA256: "00"})
	if len(m.Categories["task.error"].Sounds) != 1 {
		t.Fatal("AddSound after EnsureCategory must append to the seeded entry")
	}
}

func TestWriteAndReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	m := New(Identity{Name: "demo", Version: "1.0.0", Author: "voice-clone-generator", License: "personal-use", Language: "ja"})
	m.AddSound("session.start", Sound{File: "sounds/SessionStart1.wav", Label: "こんにちは", SHA256: strings.Repeat("ab", 32)})

	if err := Write(path, m); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// ensure_ascii=false semantics: non-ASCII labels stay literal.
	if !strings.Contains(string(raw), "こんにちは") {
		t.Fatal("label should not be escaped")
	}
	if !strings.Contains(string(raw), `"cesp_version": "1.0"`) {
		t.Fatal("expected indented cesp_version field")
	}

	loaded, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	got := loaded.Categories["session.start"].Sounds[0]
	if got.Label != "こんにちは" || got.File != "sounds/SessionStart1.wav" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"voiceforge/internal/fileutil"
)

// FileName is the manifest filename inside a pack directory.
const FileName = "openpeon.json"

// CESPVersion is the pack manifest schema version this tool emits.
const CESPVersion = "1.0"

// Author identifies the pack creator.
type Author struct {
	Name string `json:"name"`
}

// Sound describes one generated clip.
type Sound struct {
	File   string `json:"file"`
	Label  string `json:"label"`
	SHA256 string `json:"sha256"`
}

// CategorySounds holds the ordered clips for one category.
type CategorySounds struct {
	Sounds []Sound `json:"sounds"`
}

// Manifest is the pack descriptor written as openpeon.json.
type Manifest struct {
	CESPVersion string                    `json:"cesp_version"`
	Name        string                    `json:"name"`
	DisplayName string                    `json:"display_name"`
	Version     string                    `json:"version"`
	Author      Author                    `json:"author"`
	License     string                    `json:"license"`
	Language    string                    `json:"language"`
	Categories  map[string]CategorySounds `json:"categories"`
}

// Identity carries the pack-level manifest fields.
type Identity struct {
	Name        string
	DisplayName string
	Version     string
	Author      string
	License     string
	Language    string
}

// New constructs an empty manifest for the given pack identity.
func New(id Identity) *Manifest {
	display := id.DisplayName
	if display == "" {
		display = id.Name
	}
	return &Manifest{
		CESPVersion: CESPVersion,
		Name:        id.Name,
		DisplayName: display,
		Version:     id.Version,
		Author:      Author{Name: id.Author},
		License:     id.License,
		Language:    id.Language,
		Categories:  make(map[string]CategorySounds),
	}
}

// EnsureCategory seeds an empty entry so the category appears in the output
// even when none of its clips survive, serialized as an empty sounds list.
func (m *Manifest) EnsureCategory(category string) {
	if _, ok := m.Categories[category]; !ok {
		m.Categories[category] = CategorySounds{Sounds: []Sound{}}
	}
}

// AddSound appends a clip descriptor to the category, creating it on first use.
func (m *Manifest) AddSound(category string, sound Sound) {
	entry := m.Categories[category]
	entry.Sounds = append(entry.Sounds, sound)
	m.Categories[category] = entry
}

// SoundCount returns the number of clips across all categories.
func (m *Manifest) SoundCount() int {
	total := 0
	for _, entry := range m.Categories {
		total += len(entry.Sounds)
	}
	return total
}

// Write persists the manifest as indented UTF-8 JSON. The write is atomic so
// a crashed run never leaves a truncated manifest behind.
func Write(path string, m *Manifest) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Read loads a manifest from disk.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

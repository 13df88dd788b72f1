package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"voiceforge/internal/logging"
)

// Category pairs a recognized category name with its filename prefix.
type Category struct {
	Name   string
	Prefix string
}

// Recognized categories and their filename prefixes. Clip files are named
// <prefix><1-based index>.wav, so "task.complete" yields TaskDone1.wav.
var categories = []Category{
	{"session.start", "SessionStart"},
	{"task.acknowledge", "TaskAck"},
	{"task.complete", "TaskDone"},
	{"task.error", "TaskError"},
	{"input.required", "InputReq"},
	{"resource.limit", "ResLimit"},
	{"user.spam", "UserSpam"},
}

var prefixByName map[string]string

func init() {
	prefixByName = make(map[string]string, len(categories))
	for _, c := range categories {
		prefixByName[c.Name] = c.Prefix
	}
}

// Prefix returns the filename prefix for a recognized category.
func Prefix(name string) (string, bool) {
	prefix, ok := prefixByName[name]
	return prefix, ok
}

// Recognized reports whether name is a known category.
func Recognized(name string) bool {
	_, ok := prefixByName[name]
	return ok
}

// Known returns the full category table in declaration order.
func Known() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Catalog is an immutable set of lines grouped by category, preserving the
// category order of the source document.
type Catalog struct {
	order []string
	lines map[string][]string
}

// Categories returns recognized category names in document order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Lines returns the ordered lines for a category.
func (c *Catalog) Lines(category string) []string {
	out := make([]string, len(c.lines[category]))
	copy(out, c.lines[category])
	return out
}

// Total returns the number of lines across all categories.
func (c *Catalog) Total() int {
	total := 0
	for _, lines := range c.lines {
		total += len(lines)
	}
	return total
}

// Empty reports whether the catalog holds no lines at all.
func (c *Catalog) Empty() bool {
	return c.Total() == 0
}

// Load parses a line catalog JSON document (category -> list of strings).
// Unrecognized categories are dropped with a warning; document order of the
// surviving categories is preserved.
func Load(path string, logger *slog.Logger) (*Catalog, error) {
	logger = logging.NewComponentLogger(logger, "catalog")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	return parse(file, logger)
}

func parse(r io.Reader, logger *slog.Logger) (*Catalog, error) {
	decoder := json.NewDecoder(r)

	tok, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse catalog: expected JSON object, got %v", tok)
	}

	cat := &Catalog{lines: make(map[string][]string)}
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parse catalog: unexpected key token %v", keyTok)
		}

		var lines []string
		if err := decoder.Decode(&lines); err != nil {
			return nil, fmt.Errorf("parse catalog: category %q: %w", key, err)
		}

		if !Recognized(key) {
			logger.Warn("unknown category, skipping", logging.String("category", key))
			continue
		}
		if _, seen := cat.lines[key]; !seen {
			cat.order = append(cat.order, key)
		}
		cat.lines[key] = lines
	}

	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return cat, nil
}

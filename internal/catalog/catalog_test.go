package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"voiceforge/internal/logging"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lines.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadKeepsDocumentOrder(t *testing.T) {
	path := writeCatalog(t, `{
		"task.complete": ["a", "b"],
		"session.start": ["hello"]
	}`)

	cat, err := Load(path, logging.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"task.complete", "session.start"}
	if !reflect.DeepEqual(cat.Categories(), want) {
		t.Fatalf("category order %v, want %v", cat.Categories(), want)
	}
	if !reflect.DeepEqual(cat.Lines("task.complete"), []string{"a", "b"}) {
		t.Fatalf("unexpected lines: %v", cat.Lines("task.complete"))
	}
	if cat.Total() != 3 {
		t.Fatalf("total %d, want 3", cat.Total())
	}
}

func TestLoadDropsUnknownCategories(t *testing.T) {
	path := writeCatalog(t, `{
		"task.complete": ["done"],
		"made.up": ["nope"],
		"user.spam": ["again?"]
	}`)

	cat, err := Load(path, logging.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range cat.Categories() {
		if !Recognized(name) {
			t.Fatalf("unrecognized category %q survived", name)
		}
	}
	if len(cat.Categories()) != 2 {
		t.Fatalf("expected 2 categories, got %v", cat.Categories())
	}
}

func TestLoadAllUnknownYieldsEmpty(t *testing.T) {
	path := writeCatalog(t, `{"bogus": ["x"]}`)
	cat, err := Load(path, logging.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cat.Empty() {
		t.Fatal("expected empty catalog")
	}
}

func TestLoadRejectsNonObject(t *testing.T) {
	path := writeCatalog(t, `["not", "an", "object"]`)
	if _, err := Load(path, logging.NewNop()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json"), logging.NewNop()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPrefixTable(t *testing.T) {
	cases := map[string]string{
		"session.start":    "SessionStart",
		"task.acknowledge": "TaskAck",
		"task.complete":    "TaskDone",
		"task.error":       "TaskError",
		"input.required":   "InputReq",
		"resource.limit":   "ResLimit",
		"user.spam":        "UserSpam",
	}
	for name, want := range cases {
		prefix, ok := Prefix(name)
		if !ok || prefix != want {
			t.Errorf("Prefix(%q) = %q,%v want %q", name, prefix, ok, want)
		}
	}
	if _, ok := Prefix("nope"); ok {
		t.Error("unknown category should have no prefix")
	}
}

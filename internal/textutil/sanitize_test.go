package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"peon-classic", "peon-classic"},
		{"a/b", "a-b"},
		{"a\\b:c", "a-b-c"},
		{"what?", "what"},
		{"  spaced  ", "spaced"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafePackName(t *testing.T) {
	for _, name := range []string{"peon-classic", "pack_01", "日本語パック"} {
		if !SafePackName(name) {
			t.Errorf("SafePackName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"", ".", "..", "../escape", "a/b", "a:b", " padded "} {
		if SafePackName(name) {
			t.Errorf("SafePackName(%q) = true, want false", name)
		}
	}
}

// Package textutil provides small string helpers for filesystem-facing names.
package textutil

import "strings"

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a name. Slashes,
// backslashes, colons, and asterisks become dashes; other unsafe characters
// are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// SafePackName reports whether name can be used verbatim as a pack directory
// name: it survives sanitization unchanged and cannot traverse upward.
func SafePackName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return SanitizeFileName(name) == name
}

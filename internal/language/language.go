package language

import (
	"strings"

	"golang.org/x/text/language"
)

type entry struct {
	code    string // ISO 639-1 short code
	asrName string // Full name expected by the ASR backend
}

// The ASR backend takes full language names, not ISO codes.
var languages = []entry{
	{"ja", "Japanese"},
	{"en", "English"},
	{"ko", "Korean"},
}

var byCode map[string]*entry

func init() {
	byCode = make(map[string]*entry, len(languages))
	for i := range languages {
		byCode[languages[i].code] = &languages[i]
	}
}

// ASRName maps a short language code to the full name the ASR backend
// expects. Unrecognized codes pass through unchanged.
func ASRName(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if e, ok := byCode[normalized]; ok {
		return e.asrName
	}
	return code
}

// Supported reports whether the code is one of the pack languages.
func Supported(code string) bool {
	_, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// Codes returns the supported short codes in declaration order.
func Codes() []string {
	codes := make([]string, 0, len(languages))
	for _, e := range languages {
		codes = append(codes, e.code)
	}
	return codes
}

// Plausible reports whether an unrecognized code at least parses as a
// BCP 47 tag, so callers can warn before passing it through.
func Plausible(code string) bool {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return false
	}
	_, err := language.Parse(trimmed)
	return err == nil
}

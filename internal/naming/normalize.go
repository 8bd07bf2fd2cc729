package naming

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowercaser = cases.Lower(language.Und)

// Normalize maps a path segment to its canonical form: every letter
// lowercased (Unicode-aware, so extension case folds too) and every run of
// whitespace replaced with a single underscore.
func Normalize(name string) string {
	name = lowercaser.String(name)

	var b strings.Builder
	b.Grow(len(name))
	inRun := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			inRun = true
			continue
		}
		if inRun {
			b.WriteByte('_')
			inRun = false
		}
		b.WriteRune(r)
	}
	if inRun {
		b.WriteByte('_')
	}
	return b.String()
}

// NormalizeStem canonicalizes a file name with its extension stripped.
// Converted files always receive a fresh extension, so only the stem of the
// source name survives.
func NormalizeStem(name string) string {
	return Normalize(strings.TrimSuffix(name, filepath.Ext(name)))
}

// IsCanonical reports whether a segment is already in canonical form.
func IsCanonical(name string) bool {
	return name != "" && Normalize(name) == name
}

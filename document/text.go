package document

import (
	"path/filepath"
	"strings"
)

// DeriveTitle produces a fallback title from a file name when the front
// matter does not supply one.
func DeriveTitle(relPath string) string {
	name := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return "Untitled"
	}
	return name
}

// Summarize trims plain text down to a short chapter summary.
func Summarize(plain string) string {
	plain = strings.Join(strings.Fields(plain), " ")
	if plain == "" {
		return ""
	}
	const limit = 200
	runes := []rune(plain)
	if len(runes) <= limit {
		return plain
	}
	return string(runes[:limit]) + "..."
}

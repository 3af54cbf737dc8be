package document

import (
	"path"
	"path/filepath"
	"strings"
)

// IsMarkdown reports whether the path names a markdown source file.
func IsMarkdown(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".md")
}

// IsFragment reports whether the file is an underscore-prefixed fragment
// that should not become a chapter of its own.
func IsFragment(p string) bool {
	return strings.HasPrefix(filepath.Base(p), "_")
}

// IsIgnorable filters dotfiles and VCS internals out of chapter discovery.
func IsIgnorable(p string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(p), "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}

// RouteFromPath converts a source-relative markdown path into its route,
// e.g. "guide/Setup.md" -> "/guide/Setup".
func RouteFromPath(relPath string) string {
	slash := filepath.ToSlash(relPath)
	slash = strings.TrimSuffix(slash, filepath.Ext(slash))
	if !strings.HasPrefix(slash, "/") {
		slash = "/" + slash
	}
	return slash
}

// OutputPathFrom converts a source-relative markdown path into the rendered
// file path, e.g. "guide/Setup.md" -> "guide/Setup.html".
func OutputPathFrom(relPath string) string {
	rel := filepath.ToSlash(relPath)
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
}

// RelativeHref computes the href from one rendered page to another. Both
// arguments are slash-separated output paths relative to the site root.
func RelativeHref(from, to string) string {
	fromDir := path.Dir(filepath.ToSlash(from))
	rel, err := filepath.Rel(fromDir, filepath.ToSlash(to))
	if err != nil {
		return filepath.ToSlash(to)
	}
	return filepath.ToSlash(rel)
}

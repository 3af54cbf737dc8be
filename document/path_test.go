package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteFromPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Home.md", "/Home"},
		{"guide/Setup.md", "/guide/Setup"},
		{"a/b/c.md", "/a/b/c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RouteFromPath(tt.in), tt.in)
	}
}

func TestOutputPathFrom(t *testing.T) {
	assert.Equal(t, "Home.html", OutputPathFrom("Home.md"))
	assert.Equal(t, "guide/Setup.html", OutputPathFrom("guide/Setup.md"))
}

func TestRelativeHref(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want string
	}{
		{"intro.html", "setup.html", "setup.html"},
		{"guide/setup.html", "guide/usage.html", "usage.html"},
		{"guide/setup.html", "intro.html", "../intro.html"},
		{"intro.html", "guide/setup.html", "guide/setup.html"},
		{"a/b/c.html", "styles/book.css", "../../styles/book.css"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeHref(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsMarkdown("a/b.md"))
	assert.True(t, IsMarkdown("a/B.MD"))
	assert.False(t, IsMarkdown("a/b.css"))

	assert.True(t, IsFragment("guide/_notes.md"))
	assert.False(t, IsFragment("guide/notes.md"))

	assert.True(t, IsIgnorable(".git/config"))
	assert.True(t, IsIgnorable("guide/.hidden.md"))
	assert.False(t, IsIgnorable("guide/visible.md"))
}

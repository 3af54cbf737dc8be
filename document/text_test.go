package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "getting started", DeriveTitle("guide/getting-started.md"))
	assert.Equal(t, "release notes", DeriveTitle("release_notes.md"))
	assert.Equal(t, "Untitled", DeriveTitle("---.md"))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "", Summarize("   "))
	assert.Equal(t, "short text", Summarize("short   text"))

	long := strings.Repeat("word ", 100)
	summary := Summarize(long)
	assert.True(t, strings.HasSuffix(summary, "..."))
	assert.LessOrEqual(t, len([]rune(summary)), 203)
}

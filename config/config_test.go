package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookpress.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "title: Handbook\n"))
	require.NoError(t, err)

	assert.Equal(t, "Handbook", cfg.Title)
	assert.Equal(t, "./chapters", cfg.SourceDir)
	assert.Equal(t, "./dist", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Minify)
	assert.False(t, cfg.Strict)
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `title: Handbook
sourceDir: ./book
outputDir: ./public
baseUrl: /docs/
stylesheet: ./styles/book.css
script: behavior/nav.js
minify: true
strict: true
logLevel: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "./book", cfg.SourceDir)
	assert.Equal(t, "./public", cfg.OutputDir)
	assert.Equal(t, "/docs", cfg.BaseURL)
	assert.Equal(t, "styles/book.css", cfg.Stylesheet)
	assert.Equal(t, "behavior/nav.js", cfg.Script)
	assert.True(t, cfg.Minify)
	assert.True(t, cfg.Strict)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BOOKPRESS_OUTPUT_DIR", "./elsewhere")
	t.Setenv("BOOKPRESS_MINIFY", "true")
	t.Setenv("BOOKPRESS_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "title: Handbook\noutputDir: ./public\n"))
	require.NoError(t, err)

	assert.Equal(t, "./elsewhere", cfg.OutputDir)
	assert.True(t, cfg.Minify)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsOutputInsideSource(t *testing.T) {
	_, err := Load(writeConfig(t, "sourceDir: ./book\noutputDir: ./book/dist\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inside the source directory")
}

func TestLoadRejectsSourceInsideOutput(t *testing.T) {
	_, err := Load(writeConfig(t, "sourceDir: ./site/chapters\noutputDir: ./site\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inside the output directory")
}

func TestLoadRejectsOutputEqualsSource(t *testing.T) {
	_, err := Load(writeConfig(t, "sourceDir: ./book\noutputDir: ./book\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	_, err := Load(writeConfig(t, "logLevel: loud\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestNormalizeAssetRef(t *testing.T) {
	assert.Equal(t, "", normalizeAssetRef("  "))
	assert.Equal(t, "styles/book.css", normalizeAssetRef("./styles/book.css"))
	assert.Equal(t, "https://cdn.example.com/a.css", normalizeAssetRef("https://cdn.example.com/a.css"))
	assert.Equal(t, "a/b.css", normalizeAssetRef("a\\b.css"))
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "", normalizeBaseURL("/"))
	assert.Equal(t, "", normalizeBaseURL(""))
	assert.Equal(t, "/docs", normalizeBaseURL("docs/"))
	assert.Equal(t, "/a/b", normalizeBaseURL("//a//b//"))
}

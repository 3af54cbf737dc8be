package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config encapsulates build-time options for a book.
type Config struct {
	Title      string `yaml:"title"`
	SourceDir  string `yaml:"sourceDir"`
	OutputDir  string `yaml:"outputDir"`
	BaseURL    string `yaml:"baseUrl"`
	Stylesheet string `yaml:"stylesheet"`
	Script     string `yaml:"script"`
	Minify     bool   `yaml:"minify"`
	Strict     bool   `yaml:"strict"`
	LogLevel   string `yaml:"logLevel"`
}

// Load reads configuration from disk and applies sane defaults.
// Environment variables (BOOKPRESS_*) override file values before validation.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("BOOKPRESS_TITLE"); ok {
		c.Title = v
	}
	if v, ok := os.LookupEnv("BOOKPRESS_SOURCE_DIR"); ok {
		c.SourceDir = v
	}
	if v, ok := os.LookupEnv("BOOKPRESS_OUTPUT_DIR"); ok {
		c.OutputDir = v
	}
	if v, ok := os.LookupEnv("BOOKPRESS_BASE_URL"); ok {
		c.BaseURL = v
	}
	if v, ok := os.LookupEnv("BOOKPRESS_STYLESHEET"); ok {
		c.Stylesheet = v
	}
	if v, ok := os.LookupEnv("BOOKPRESS_SCRIPT"); ok {
		c.Script = v
	}
	if v, ok := os.LookupEnv("BOOKPRESS_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv("BOOKPRESS_MINIFY"); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Minify = parsed
		}
	}
	if v, ok := os.LookupEnv("BOOKPRESS_STRICT"); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Strict = parsed
		}
	}
}

func (c *Config) applyDefaults() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		c.Title = "Untitled Book"
	}

	c.SourceDir = strings.TrimSpace(c.SourceDir)
	if c.SourceDir == "" {
		c.SourceDir = "./chapters"
	}
	c.OutputDir = strings.TrimSpace(c.OutputDir)
	if c.OutputDir == "" {
		c.OutputDir = "./dist"
	}

	c.BaseURL = normalizeBaseURL(c.BaseURL)
	c.Stylesheet = normalizeAssetRef(c.Stylesheet)
	c.Script = normalizeAssetRef(c.Script)

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}

func (c *Config) validate() error {
	src, err := filepath.Abs(c.SourceDir)
	if err != nil {
		return fmt.Errorf("resolve source dir: %w", err)
	}
	dst, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	if src == dst {
		return fmt.Errorf("output directory must differ from source directory")
	}
	if strings.HasPrefix(dst+string(filepath.Separator), src+string(filepath.Separator)) {
		return fmt.Errorf("output directory must not be inside the source directory")
	}
	// The build rotates the whole output tree aside and removes it; a source
	// directory nested inside it would be deleted along with the old output.
	if strings.HasPrefix(src+string(filepath.Separator), dst+string(filepath.Separator)) {
		return fmt.Errorf("source directory must not be inside the output directory")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// normalizeBaseURL keeps the base URL in "/segment" form with no trailing slash.
func normalizeBaseURL(raw string) string {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return ""
	}
	cleaned := path.Clean("/" + trimmed)
	if cleaned == "/" || cleaned == "." {
		return ""
	}
	return cleaned
}

// normalizeAssetRef cleans relative asset references while leaving absolute
// URLs untouched. Asset content is opaque to the build.
func normalizeAssetRef(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.Contains(trimmed, "://") || strings.HasPrefix(trimmed, "//") {
		return trimmed
	}
	trimmed = strings.ReplaceAll(trimmed, "\\", "/")
	cleaned := path.Clean(trimmed)
	for strings.HasPrefix(cleaned, "./") {
		cleaned = strings.TrimPrefix(cleaned, "./")
	}
	if cleaned == "." || cleaned == "" {
		return ""
	}
	return cleaned
}

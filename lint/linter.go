package lint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/jquist/bookpress/document"
	"github.com/jquist/bookpress/render"
)

// Config controls linter behaviour.
type Config struct {
	// Quiet suppresses warnings and informational findings.
	Quiet bool
}

// Linter checks chapter sources for problems an author should fix before a
// build. It never modifies anything.
type Linter struct {
	cfg *Config
}

// NewLinter constructs a linter with the given configuration.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Linter{cfg: cfg}
}

// LintPath lints a single markdown file or every markdown file under a
// directory. A finding in one file never stops inspection of the others.
func (l *Linter) LintPath(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	result := &Result{}
	if !info.IsDir() {
		l.lintFile(path, filepath.ToSlash(filepath.Base(path)), result)
		result.FilesTotal = 1
		return l.filtered(result), nil
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(path, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if document.IsIgnorable(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !document.IsMarkdown(rel) {
			return nil
		}
		result.FilesTotal++
		l.lintFile(p, rel, result)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	return l.filtered(result), nil
}

func (l *Linter) lintFile(fullPath, rel string, result *Result) {
	source, err := os.ReadFile(fullPath)
	if err != nil {
		result.Issues = append(result.Issues, Issue{
			FilePath: rel,
			Severity: SeverityError,
			Rule:     "readable",
			Message:  err.Error(),
		})
		return
	}

	doc, err := document.Parse(rel, source)
	if err != nil {
		result.Issues = append(result.Issues, Issue{
			FilePath: rel,
			Severity: SeverityError,
			Rule:     "parse",
			Message:  err.Error(),
		})
		return
	}

	checkHeadingStructure(doc, result)
	checkTitle(doc, result)
	checkMetaKeys(doc, result)
	checkDuplicateAnchors(doc, result)
}

// checkHeadingStructure surfaces the renderer's only validation concern as a
// lint finding so authors see it before the build skips the chapter.
func checkHeadingStructure(doc *document.Document, result *Result) {
	err := doc.Validate()
	if err == nil {
		return
	}
	issue := Issue{
		FilePath: doc.Source,
		Severity: SeverityError,
		Rule:     "heading-structure",
		Message:  err.Error(),
	}
	var malformed *document.MalformedContentError
	if errors.As(err, &malformed) {
		issue.Section = malformed.Section
	}
	result.Issues = append(result.Issues, issue)
}

func checkTitle(doc *document.Document, result *Result) {
	if _, ok := doc.Meta["title"]; ok {
		return
	}
	result.Issues = append(result.Issues, Issue{
		FilePath: doc.Source,
		Severity: SeverityWarning,
		Rule:     "missing-title",
		Message:  fmt.Sprintf("no front matter title; falling back to %q", doc.Title),
	})
}

func checkMetaKeys(doc *document.Document, result *Result) {
	unknown := make([]string, 0, 4)
	for key := range doc.Meta {
		if _, ok := document.KnownMetaKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		result.Issues = append(result.Issues, Issue{
			FilePath: doc.Source,
			Severity: SeverityWarning,
			Rule:     "unknown-meta",
			Message:  fmt.Sprintf("front matter key %q is not consumed by the build", key),
		})
	}
}

func checkDuplicateAnchors(doc *document.Document, result *Result) {
	seen := make(map[string]string)
	for i, section := range doc.Sections {
		if section.Kind != document.KindHeading {
			continue
		}
		slug := render.Slug(section.Text)
		if first, ok := seen[slug]; ok {
			result.Issues = append(result.Issues, Issue{
				FilePath: doc.Source,
				Severity: SeverityInfo,
				Rule:     "duplicate-anchor",
				Message:  fmt.Sprintf("heading %q shares anchor %q with %q; a numeric suffix will be appended", section.Text, slug, first),
				Section:  i,
			})
			continue
		}
		seen[slug] = section.Text
	}
}

func (l *Linter) filtered(result *Result) *Result {
	if !l.cfg.Quiet {
		return result
	}
	kept := make([]Issue, 0, len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Severity == SeverityError {
			kept = append(kept, issue)
		}
	}
	result.Issues = kept
	return result
}

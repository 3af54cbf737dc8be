package book

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/jquist/bookpress/config"
	"github.com/jquist/bookpress/document"
	"github.com/jquist/bookpress/render"
)

// Book composes a linear sequence of chapters out of a source tree and
// renders them into a static site.
type Book struct {
	cfg    *config.Config
	rend   *render.Renderer
	logger *slog.Logger
}

// Skipped records a chapter that could not be rendered. One malformed
// chapter never blocks the rest of the batch.
type Skipped struct {
	Source string
	Err    error
}

// New constructs a Book around the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Book {
	if logger == nil {
		logger = slog.Default()
	}
	return &Book{cfg: cfg, rend: render.New(), logger: logger}
}

// Load parses every chapter under the source directory and returns them in
// sequence order, along with the relative paths of non-markdown assets and
// any chapters whose source could not be parsed.
func (b *Book) Load(ctx context.Context) ([]*document.Document, []string, []Skipped, error) {
	var (
		docs    []*document.Document
		assets  []string
		skipped []Skipped
	)

	root := b.cfg.SourceDir
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, relErr := filepath.Rel(root, p)
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
		if d.IsDir() {
			return nil
		}
		if !document.IsMarkdown(rel) {
			assets = append(assets, rel)
			return nil
		}
		if document.IsFragment(rel) {
			return nil
		}

		source, readErr := os.ReadFile(p)
		if readErr != nil {
			return fmt.Errorf("read chapter %s: %w", rel, readErr)
		}
		doc, parseErr := document.Parse(rel, source)
		if parseErr != nil {
			b.logger.Warn("skipping unparseable chapter", "source", rel, "error", parseErr)
			skipped = append(skipped, Skipped{Source: rel, Err: parseErr})
			return nil
		}
		if validErr := doc.Validate(); validErr != nil {
			// Excluded before sequencing so surviving chapters never link
			// to a page that was not written.
			b.logger.Warn("skipping malformed chapter", "source", rel, "error", validErr)
			skipped = append(skipped, Skipped{Source: rel, Err: validErr})
			return nil
		}
		b.applyDefaults(doc)
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("walk source dir: %w", err)
	}

	orderChapters(docs)
	assignSequence(docs)
	sort.Strings(assets)
	return docs, assets, skipped, nil
}

// applyDefaults fills per-chapter asset references from the book config when
// the front matter does not override them.
func (b *Book) applyDefaults(doc *document.Document) {
	if doc.Stylesheet == "" {
		doc.Stylesheet = b.cfg.Stylesheet
	}
	if doc.Script == "" {
		doc.Script = b.cfg.Script
	}
}

// orderChapters establishes the book sequence: front-matter weight first,
// route as the tie breaker. The order is total, so builds are reproducible.
func orderChapters(docs []*document.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Weight != docs[j].Weight {
			return docs[i].Weight < docs[j].Weight
		}
		return docs[i].Route < docs[j].Route
	})
}

// assignSequence wires prev/next links from sequence position. The first
// chapter gets no previous control and the last no next control.
func assignSequence(docs []*document.Document) {
	for i, doc := range docs {
		if i > 0 {
			neighbor := docs[i-1]
			label := doc.PrevLabel
			if label == "" {
				label = neighbor.Title
			}
			doc.Prev = &document.Link{
				URL:   document.RelativeHref(doc.OutputPath, neighbor.OutputPath),
				Label: label,
			}
		}
		if i < len(docs)-1 {
			neighbor := docs[i+1]
			label := doc.NextLabel
			if label == "" {
				label = neighbor.Title
			}
			doc.Next = &document.Link{
				URL:   document.RelativeHref(doc.OutputPath, neighbor.OutputPath),
				Label: label,
			}
		}
	}
}

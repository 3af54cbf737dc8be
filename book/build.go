package book

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jquist/bookpress/document"
	"github.com/jquist/bookpress/fsutil"
	"github.com/jquist/bookpress/render"
)

// Result summarizes a completed build.
type Result struct {
	Pages   int
	Assets  int
	Skipped []Skipped
}

// Build renders the whole book into the configured output directory. The
// site is assembled in a temporary directory and swapped in atomically, so
// readers never observe a half-written output tree.
func (b *Book) Build(ctx context.Context) (*Result, error) {
	finalDir := b.cfg.OutputDir
	parent := filepath.Dir(finalDir)
	if parent == "" {
		parent = "."
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output parent: %w", err)
	}

	tempDir, err := os.MkdirTemp(parent, ".__build-")
	if err != nil {
		return nil, fmt.Errorf("create temp output dir: %w", err)
	}
	cleanTemp := true
	defer func() {
		if cleanTemp && tempDir != "" {
			_ = os.RemoveAll(tempDir)
		}
	}()

	docs, assets, skipped, err := b.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 && len(skipped) == 0 {
		return nil, fmt.Errorf("no chapters found in %s", b.cfg.SourceDir)
	}

	rendered := make([]*document.Document, 0, len(docs))
	for _, doc := range docs {
		page, renderErr := b.rend.Render(doc)
		if renderErr != nil {
			var malformed *document.MalformedContentError
			if errors.As(renderErr, &malformed) {
				// Surface to the author and keep going; a broken chapter
				// must not block its siblings.
				b.logger.Warn("skipping malformed chapter", "source", doc.Source, "error", renderErr)
				skipped = append(skipped, Skipped{Source: doc.Source, Err: renderErr})
				continue
			}
			return nil, renderErr
		}
		if b.cfg.Minify {
			page, err = render.MinifyHTML(page)
			if err != nil {
				return nil, fmt.Errorf("minify %s: %w", doc.Route, err)
			}
		}
		target := filepath.Join(tempDir, filepath.FromSlash(doc.OutputPath))
		if err := fsutil.WriteFile(target, page); err != nil {
			return nil, fmt.Errorf("write %s: %w", doc.OutputPath, err)
		}
		rendered = append(rendered, doc)
	}

	if len(rendered) == 0 {
		return nil, fmt.Errorf("no chapters rendered")
	}
	if b.cfg.Strict && len(skipped) > 0 {
		return nil, fmt.Errorf("strict mode: %d chapter(s) malformed, first: %w", len(skipped), skipped[0].Err)
	}

	for _, asset := range assets {
		src := filepath.Join(b.cfg.SourceDir, filepath.FromSlash(asset))
		dst := filepath.Join(tempDir, filepath.FromSlash(asset))
		if err := fsutil.CopyFile(src, dst); err != nil {
			return nil, fmt.Errorf("copy asset %s: %w", asset, err)
		}
	}

	indexJSON, err := buildChapterIndex(b.cfg, rendered)
	if err != nil {
		return nil, err
	}
	if err := fsutil.WriteFile(filepath.Join(tempDir, chapterIndexName), indexJSON); err != nil {
		return nil, fmt.Errorf("write chapter index: %w", err)
	}

	if err := swapOutput(tempDir, finalDir); err != nil {
		return nil, err
	}
	cleanTemp = false
	tempDir = ""

	return &Result{Pages: len(rendered), Assets: len(assets), Skipped: skipped}, nil
}

// swapOutput rotates the previous output aside and activates the freshly
// built tree, restoring the old one if activation fails.
func swapOutput(tempDir, finalDir string) error {
	backupDir := finalDir + ".old"
	if err := os.RemoveAll(backupDir); err != nil {
		return fmt.Errorf("clean backup dir: %w", err)
	}
	if err := os.Rename(finalDir, backupDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rotate old output: %w", err)
	}
	if err := os.Rename(tempDir, finalDir); err != nil {
		_ = os.Rename(backupDir, finalDir)
		return fmt.Errorf("activate new output: %w", err)
	}
	_ = os.RemoveAll(backupDir)
	return nil
}

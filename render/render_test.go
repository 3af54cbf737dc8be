package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jquist/bookpress/document"
)

func mustParse(t *testing.T, relPath, source string) *document.Document {
	t.Helper()
	doc, err := document.Parse(relPath, []byte(source))
	require.NoError(t, err)
	return doc
}

func TestRenderDeterministic(t *testing.T) {
	doc := mustParse(t, "guide/setup.md", `---
title: Setup
---

# Setup

Install the thing.

## Verify

`+"```sh\nbin/check --all\n```\n")
	doc.Next = &document.Link{URL: "usage.html", Label: "Usage"}

	r := New()
	first, err := r.Render(doc)
	require.NoError(t, err)
	second, err := r.Render(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same document must render to identical bytes")
}

func TestRenderHeadingOnlyDocument(t *testing.T) {
	doc := mustParse(t, "best-practices.md", "# Best Practices\n")

	out, err := New().Render(doc)
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, `<h1 id="best-practices">Best Practices</h1>`)
	assert.NotContains(t, page, "<p>", "no body content expected")
	assert.NotContains(t, page, "book-toc", "single heading yields no table of contents")
	assert.NotContains(t, page, "book-nav", "no sequence links yields no navigation")
}

func TestRenderSectionOrderPreserved(t *testing.T) {
	doc := mustParse(t, "order.md", `# First

A paragraph.

- alpha
- beta

1. one
2. two

`+"```text\nplainword\n```\n")

	out, err := New().Render(doc)
	require.NoError(t, err)
	page := string(out)

	positions := []int{
		strings.Index(page, "<h1"),
		strings.Index(page, "A paragraph."),
		strings.Index(page, "<ul>"),
		strings.Index(page, "<ol>"),
		strings.Index(page, "<pre"),
	}
	for i, pos := range positions {
		require.GreaterOrEqual(t, pos, 0, "marker %d missing", i)
		if i > 0 {
			assert.Greater(t, pos, positions[i-1], "section %d rendered out of order", i)
		}
	}
}

func TestRenderNavigation(t *testing.T) {
	doc := mustParse(t, "middle.md", "# Middle\n\ntext\n")
	doc.Prev = &document.Link{URL: "intro.html", Label: "Intro & Scope"}

	out, err := New().Render(doc)
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, `rel="prev"`)
	assert.Contains(t, page, `href="intro.html"`)
	assert.Contains(t, page, "Intro &amp; Scope")
	assert.NotContains(t, page, `rel="next"`, "nil next link renders no next control")
}

func TestRenderCodeListingMetadata(t *testing.T) {
	doc := mustParse(t, "listing.md", "# Code\n\n```text\nplainword\n```\n")

	out, err := New().Render(doc)
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, `data-lang="text"`, "language tag preserved as metadata")
	assert.Contains(t, page, "plainword", "listing text preserved")
}

func TestRenderAssetReferences(t *testing.T) {
	doc := mustParse(t, "guide/deep.md", "# Deep\n\ntext\n")
	doc.Stylesheet = "styles/book.css"
	doc.Script = "behavior/nav.js"

	out, err := New().Render(doc)
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, `<link rel="stylesheet" href="../styles/book.css">`)
	assert.Contains(t, page, `<script src="../behavior/nav.js" defer></script>`)
}

func TestRenderAbsoluteAssetReferenceUntouched(t *testing.T) {
	doc := mustParse(t, "guide/deep.md", "# Deep\n\ntext\n")
	doc.Stylesheet = "https://cdn.example.com/book.css"

	out, err := New().Render(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `href="https://cdn.example.com/book.css"`)
}

func TestRenderDuplicateHeadingAnchors(t *testing.T) {
	doc := mustParse(t, "dup.md", "# Usage\n\ntext\n\n## Usage\n")

	out, err := New().Render(doc)
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, `id="usage"`)
	assert.Contains(t, page, `id="usage-1"`)
	assert.Contains(t, page, "book-toc", "two headings yield a table of contents")
}

func TestRenderMalformedHeadingFails(t *testing.T) {
	doc := mustParse(t, "bad.md", "## Fine\n\n#### Jumped\n")

	_, err := New().Render(doc)
	require.Error(t, err)
	var malformed *document.MalformedContentError
	require.ErrorAs(t, err, &malformed)
}

func TestRenderEscapesTitle(t *testing.T) {
	doc := mustParse(t, "esc.md", "---\ntitle: Ops <&> Maintenance\n---\n\n# H\n")

	out, err := New().Render(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>Ops &lt;&amp;&gt; Maintenance</title>")
}

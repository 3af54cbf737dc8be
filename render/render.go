package render

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlRenderer "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/jquist/bookpress/document"
)

// TOCEntry models a single heading anchor for in-page navigation.
type TOCEntry struct {
	ID    string
	Text  string
	Level int
}

// Renderer transforms a Document into a complete HTML page. It holds no
// per-document state; rendering the same Document twice yields identical
// bytes.
type Renderer struct {
	md goldmark.Markdown
}

// New constructs a renderer with GitHub-flavored markdown extensions and
// class-based syntax highlighting. Listings are highlighted via CSS classes
// only; the listing text itself is reproduced verbatim.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.DefinitionList,
			extension.Footnote,
			extension.Table,
			extension.Typographer,
			extension.Strikethrough,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
					chromahtml.WithAllClasses(true),
					chromahtml.ClassPrefix("z-"),
					chromahtml.PreventSurroundingPre(true),
				),
				highlighting.WithWrapperRenderer(codeWrapper),
			),
			meta.Meta,
		),
		goldmark.WithParserOptions(
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			htmlRenderer.WithUnsafe(),
		),
	)
	return &Renderer{md: md}
}

// Render produces the full page markup for a document: head with asset
// references, navigation controls for the book sequence, and body sections
// in authored order. It fails only on malformed heading structure.
func (r *Renderer) Render(doc *document.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	ctx := parser.NewContext()
	reader := text.NewReader(doc.Body)
	root := r.md.Parser().Parse(reader, parser.WithContext(ctx))

	toc := assignHeadingAnchors(root, doc.Body)

	var body bytes.Buffer
	if err := r.md.Renderer().Render(&body, doc.Body, root); err != nil {
		return nil, fmt.Errorf("render %s: %w", doc.Source, err)
	}

	return buildPage(doc, body.Bytes(), toc), nil
}

// assignHeadingAnchors gives every heading a deduplicated id attribute and
// returns the resulting table of contents. Counters are scoped to one
// document so output stays deterministic.
func assignHeadingAnchors(root ast.Node, source []byte) []TOCEntry {
	toc := make([]TOCEntry, 0, 16)
	slugCounts := make(map[string]int)

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		heading, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		attr, _ := heading.AttributeString("id")
		txt := headingText(heading, source)
		id := attributeToString(attr)
		if id == "" {
			base := Slug(txt)
			count := slugCounts[base]
			if count > 0 {
				id = fmt.Sprintf("%s-%d", base, count)
			} else {
				id = base
			}
			slugCounts[base] = count + 1
			heading.SetAttributeString("id", []byte(id))
		} else {
			slugCounts[id]++
		}
		toc = append(toc, TOCEntry{ID: id, Text: txt, Level: heading.Level})
		return ast.WalkContinue, nil
	})
	return toc
}

func headingText(root ast.Node, source []byte) string {
	var sb bytes.Buffer
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if n == root {
			return ast.WalkContinue, nil
		}
		if txt, ok := n.(*ast.Text); ok && entering {
			sb.Write(txt.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return string(bytes.TrimSpace(sb.Bytes()))
}

func attributeToString(value interface{}) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return ""
	}
}

// codeWrapper tags each listing with its declared language so styling and
// client-side collaborators can read it as metadata. The listing body is
// emitted by the highlighter without modification beyond HTML escaping.
func codeWrapper(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	lang := "text"
	if raw, ok := ctx.Language(); ok && len(raw) > 0 {
		lang = string(raw)
	}
	lang = string(util.EscapeHTML([]byte(lang)))
	if entering {
		_, _ = fmt.Fprintf(w, `<pre tabindex="0" class="z-chroma z-code language-%[1]s" data-lang="%[1]s"><code class="language-%[1]s" data-lang="%[1]s">`, lang)
		return
	}
	_, _ = w.WriteString("</code></pre>\n")
}

package document

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// KnownMetaKeys lists the front matter keys the build consumes. Anything else
// is surfaced by lint as a warning rather than silently ignored.
var KnownMetaKeys = map[string]struct{}{
	"title":      {},
	"weight":     {},
	"stylesheet": {},
	"script":     {},
	"prev_label": {},
	"next_label": {},
}

var sectionParser = goldmark.New(goldmark.WithExtensions(meta.Meta))

// Parse builds an immutable Document from markdown source. relPath is the
// slash-separated path of the file within the book source tree.
func Parse(relPath string, source []byte) (*Document, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return nil, fmt.Errorf("%s: %w", relPath, ErrEmptyDocument)
	}

	ctx := parser.NewContext()
	root := sectionParser.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	metadata, err := meta.TryGet(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: front matter: %w", relPath, err)
	}

	doc := &Document{
		Source:     relPath,
		Route:      RouteFromPath(relPath),
		OutputPath: OutputPathFrom(relPath),
		Title:      DeriveTitle(relPath),
		Body:       append([]byte(nil), source...),
		Meta:       metadata,
	}
	applyMeta(doc, metadata)

	doc.Sections = extractSections(root, source)
	doc.PlainText = extractPlainText(root, source)
	return doc, nil
}

func applyMeta(doc *Document, metadata map[string]any) {
	if v := metaString(metadata, "title"); v != "" {
		doc.Title = v
	}
	doc.Stylesheet = metaString(metadata, "stylesheet")
	doc.Script = metaString(metadata, "script")
	doc.PrevLabel = metaString(metadata, "prev_label")
	doc.NextLabel = metaString(metadata, "next_label")
	doc.Weight = metaInt(metadata, "weight")
}

func metaString(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	if v, ok := metadata[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func metaInt(metadata map[string]any, key string) int {
	if metadata == nil {
		return 0
	}
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

// extractSections flattens the top-level blocks of the parsed tree into the
// ordered section sequence. Ordering is significant and preserved exactly.
func extractSections(root ast.Node, source []byte) []Section {
	sections := make([]Section, 0, 16)
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Heading:
			sections = append(sections, Section{
				Kind:  KindHeading,
				Level: node.Level,
				Text:  extractText(node, source),
			})
		case *ast.FencedCodeBlock:
			lang := ""
			if raw := node.Language(source); len(raw) > 0 {
				lang = string(raw)
			}
			sections = append(sections, Section{
				Kind: KindCode,
				Lang: lang,
				Code: linesText(node, source),
			})
		case *ast.CodeBlock:
			sections = append(sections, Section{
				Kind: KindCode,
				Code: linesText(node, source),
			})
		case *ast.List:
			sections = append(sections, Section{
				Kind:    KindList,
				Ordered: node.IsOrdered(),
				Items:   listItems(node, source),
			})
		case *ast.Paragraph:
			sections = append(sections, Section{
				Kind: KindParagraph,
				Text: extractText(node, source),
			})
		default:
			// Blockquotes, tables and raw HTML carry no dedicated section
			// kind; they remain ordinary paragraph-kind entries so ordering
			// stays intact. Blocks with no text (thematic breaks) are kept
			// out of the section list entirely.
			if txt := extractText(child, source); txt != "" {
				sections = append(sections, Section{Kind: KindParagraph, Text: txt})
			}
		}
	}
	return sections
}

// linesText reproduces a code block body verbatim, whitespace included.
func linesText(node ast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

func listItems(list *ast.List, source []byte) []string {
	items := make([]string, 0, 8)
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		items = append(items, extractText(li, source))
	}
	return items
}

func extractText(root ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if n == root {
			return ast.WalkContinue, nil
		}
		if txt, ok := n.(*ast.Text); ok && entering {
			sb.Write(txt.Segment.Value(source))
			if txt.SoftLineBreak() || txt.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func extractPlainText(root ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if txt, ok := n.(*ast.Text); ok && entering {
			sb.Write(txt.Segment.Value(source))
			sb.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

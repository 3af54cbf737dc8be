package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/jquist/bookpress/document"
)

// tocMinHeadings is the heading count below which no table of contents is
// emitted; a page with a single heading has nothing to navigate.
const tocMinHeadings = 2

// buildPage assembles the page shell around the rendered body: document
// head with asset references, prev/next sequence navigation and an optional
// table of contents. Controls for absent links are omitted entirely.
func buildPage(doc *document.Document, body []byte, toc []TOCEntry) []byte {
	var buf bytes.Buffer
	buf.Grow(len(body) + 1024)

	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	buf.WriteString("<meta charset=\"utf-8\">\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(doc.Title))
	if doc.Stylesheet != "" {
		fmt.Fprintf(&buf, "<link rel=\"stylesheet\" href=\"%s\">\n", html.EscapeString(assetHref(doc, doc.Stylesheet)))
	}
	buf.WriteString("</head>\n<body>\n")

	nav := navHTML(doc)
	buf.WriteString(nav)

	if len(toc) >= tocMinHeadings {
		writeTOC(&buf, toc)
	}

	buf.WriteString("<main class=\"book-content\">\n")
	buf.Write(body)
	buf.WriteString("</main>\n")

	buf.WriteString(nav)

	if doc.Script != "" {
		fmt.Fprintf(&buf, "<script src=\"%s\" defer></script>\n", html.EscapeString(assetHref(doc, doc.Script)))
	}
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

func navHTML(doc *document.Document) string {
	if doc.Prev == nil && doc.Next == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("<nav class=\"book-nav\">\n")
	if doc.Prev != nil {
		fmt.Fprintf(&sb, "<a rel=\"prev\" class=\"book-nav-prev\" href=\"%s\">%s</a>\n",
			html.EscapeString(doc.Prev.URL), html.EscapeString(doc.Prev.Label))
	}
	if doc.Next != nil {
		fmt.Fprintf(&sb, "<a rel=\"next\" class=\"book-nav-next\" href=\"%s\">%s</a>\n",
			html.EscapeString(doc.Next.URL), html.EscapeString(doc.Next.Label))
	}
	sb.WriteString("</nav>\n")
	return sb.String()
}

func writeTOC(buf *bytes.Buffer, toc []TOCEntry) {
	buf.WriteString("<nav class=\"book-toc\">\n<ol>\n")
	for _, entry := range toc {
		fmt.Fprintf(buf, "<li class=\"toc-level-%d\"><a href=\"#%s\">%s</a></li>\n",
			entry.Level, html.EscapeString(entry.ID), html.EscapeString(entry.Text))
	}
	buf.WriteString("</ol>\n</nav>\n")
}

// assetHref adjusts a site-relative asset reference for the directory depth
// of the page referencing it. Absolute URLs and root-relative paths pass
// through untouched; the asset itself stays an opaque collaborator.
func assetHref(doc *document.Document, ref string) string {
	if ref == "" {
		return ref
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "//") || strings.HasPrefix(ref, "/") {
		return ref
	}
	return document.RelativeHref(doc.OutputPath, ref)
}

package document

import (
	"errors"
	"fmt"
)

// SectionKind enumerates the block kinds a document body is made of.
type SectionKind int

const (
	KindHeading SectionKind = iota
	KindParagraph
	KindList
	KindCode
)

// String returns the human-readable kind name.
func (k SectionKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	case KindCode:
		return "code"
	default:
		return "unknown"
	}
}

// Section is one ordered content block. Only the fields relevant to its Kind
// are populated.
type Section struct {
	Kind SectionKind

	// Heading
	Level int
	Text  string

	// List
	Ordered bool
	Items   []string

	// Code listing. Lang is display metadata only; Code is verbatim source
	// text and is never interpreted.
	Lang string
	Code string
}

// Link is a (target, label) pair positioning a document in the book sequence.
type Link struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// Document is a single immutable content unit: authored once, rendered many
// times. Prev/Next are nil at the start/end of the sequence.
type Document struct {
	Source     string
	Route      string
	OutputPath string

	Title      string
	Stylesheet string
	Script     string
	Weight     int

	Prev *Link
	Next *Link

	// PrevLabel/NextLabel override the display label of the computed
	// sequence links without changing the sequence itself.
	PrevLabel string
	NextLabel string

	Sections  []Section
	PlainText string

	// Body is the markdown source with front matter retained; the renderer
	// parses it with the front matter extension so metadata is not emitted.
	Body []byte

	// Meta holds the raw front matter mapping for lint inspection.
	Meta map[string]any
}

// ErrEmptyDocument is returned when a source file contains no content at all.
var ErrEmptyDocument = errors.New("document is empty")

// MalformedContentError reports a heading that nests deeper than its
// predecessor allows. It is the only structural validation a document gets.
type MalformedContentError struct {
	Source  string
	Section int
	Level   int
	Prev    int
}

func (e *MalformedContentError) Error() string {
	if e.Prev == 0 {
		return fmt.Sprintf("%s: section %d: malformed heading level %d", e.Source, e.Section, e.Level)
	}
	return fmt.Sprintf("%s: section %d: heading level jumps from %d to %d", e.Source, e.Section, e.Prev, e.Level)
}

// Validate checks heading nesting: a heading may be at most one level deeper
// than the previous heading; returning to any shallower level is allowed, and
// the first heading may sit at any level.
func (d *Document) Validate() error {
	prev := 0
	for i, s := range d.Sections {
		if s.Kind != KindHeading {
			continue
		}
		if s.Level < 1 || s.Level > 6 {
			return &MalformedContentError{Source: d.Source, Section: i, Level: s.Level, Prev: prev}
		}
		if prev > 0 && s.Level > prev+1 {
			return &MalformedContentError{Source: d.Source, Section: i, Level: s.Level, Prev: prev}
		}
		prev = s.Level
	}
	return nil
}

// Headings returns the heading sections in document order.
func (d *Document) Headings() []Section {
	out := make([]Section, 0, 8)
	for _, s := range d.Sections {
		if s.Kind == KindHeading {
			out = append(out, s)
		}
	}
	return out
}

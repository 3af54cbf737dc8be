package book

import (
	"encoding/json"

	"github.com/jquist/bookpress/config"
	"github.com/jquist/bookpress/document"
)

const (
	chapterIndexName    = "chapters.json"
	chapterIndexVersion = 1
)

type chapterEntry struct {
	Route   string `json:"route"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// buildChapterIndex emits the machine-readable sequence manifest consumed by
// the page script asset for client-side navigation enhancements. Chapters
// appear in book order.
func buildChapterIndex(cfg *config.Config, docs []*document.Document) ([]byte, error) {
	chapters := make([]chapterEntry, 0, len(docs))
	for _, doc := range docs {
		chapters = append(chapters, chapterEntry{
			Route:   doc.Route,
			URL:     cfg.BaseURL + "/" + doc.OutputPath,
			Title:   doc.Title,
			Summary: document.Summarize(doc.PlainText),
		})
	}

	payload := struct {
		Version  int            `json:"v"`
		Book     string         `json:"book"`
		Count    int            `json:"count"`
		Chapters []chapterEntry `json:"chapters"`
	}{
		Version:  chapterIndexVersion,
		Book:     cfg.Title,
		Count:    len(chapters),
		Chapters: chapters,
	}
	return json.Marshal(payload)
}

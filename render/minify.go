package render

import (
	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"
)

var minifier = func() *minify.M {
	m := minify.New()
	m.Add("text/html", &mhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return m
}()

// MinifyHTML compacts rendered markup. Preformatted listing content is left
// untouched, so the verbatim-code guarantee survives minification.
func MinifyHTML(raw []byte) ([]byte, error) {
	return minifier.Bytes("text/html", raw)
}

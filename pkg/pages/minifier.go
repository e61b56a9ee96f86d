package pages

import (
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// Media types understood by the minifier.
const (
	MediaHTML = "text/html"
	MediaCSS  = "text/css"
	MediaJS   = "application/javascript"
)

type Minifier interface {
	Minify(mediatype string, content []byte) ([]byte, error)
}

// TDMinifier minifies through tdewolff/minify.
type TDMinifier struct {
	Minifier *minify.M
}

func (m *TDMinifier) Minify(mediatype string, content []byte) ([]byte, error) {
	return m.Minifier.Bytes(mediatype, content)
}

// NOOPMinifier returns content untouched.
type NOOPMinifier struct {
}

func (m *NOOPMinifier) Minify(mediatype string, content []byte) ([]byte, error) {
	return content, nil
}

// NewMinifier builds the tdewolff minifier used for pages and static trees.
// Comments and attribute quotes survive: markers are comments, and anchors
// and props blobs are matched with their quotes.
func NewMinifier() *TDMinifier {
	minifier := minify.New()
	minifier.AddFunc(MediaCSS, css.Minify)
	minifier.Add(MediaHTML, &html.Minifier{
		KeepComments:        true,
		KeepDefaultAttrVals: true,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
	})
	minifier.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	return &TDMinifier{
		Minifier: minifier,
	}
}

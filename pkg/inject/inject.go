// Package inject replaces literal placeholder markers inside page text.
//
// Pages are never parsed: a marker is an exact substring, found with plain
// string search and replaced by position.
package inject

import (
	"errors"
	"strings"

	"github.com/toastate/hydrate/pkg/relpath"
)

// Page marker vocabulary.
const (
	AssetsMarker  = "{assets}"
	ScriptsMarker = "<!-- {scripts} -->"
	StylesMarker  = "<!-- {styles} -->"
)

// ErrSelfReferential is returned when a repeatable replacement would
// reintroduce its own marker and never terminate.
var ErrSelfReferential = errors.New("replacement value contains its marker")

// TagFunc renders one link for a relative asset path.
type TagFunc func(link string) string

// ScriptTag renders a deferred script element.
func ScriptTag(link string) string {
	return `<script defer async src="` + link + `"></script>`
}

// StyleTag renders a stylesheet link element.
func StyleTag(link string) string {
	return `<link rel="stylesheet" href="` + link + `">`
}

// Once replaces the first occurrence of token with value. Further
// occurrences are left as they are. Missing tokens leave content unchanged.
func Once(content, token, value string) string {
	start := strings.Index(content, token)
	if start < 0 || token == "" {
		return content
	}
	end := start + len(token)
	return content[:start] + value + content[end:]
}

// Repeat replaces every occurrence of token with value, one at a time, until
// none remain.
func Repeat(content, token, value string) (string, error) {
	if token == "" || strings.Contains(value, token) {
		return content, ErrSelfReferential
	}
	for strings.Contains(content, token) {
		content = Once(content, token, value)
	}
	return content, nil
}

// Tags builds the concatenated tags for every asset, in catalog order,
// each linked relative to pagePath.
func Tags(assets []string, pagePath string, tag TagFunc) string {
	var sb strings.Builder
	for _, a := range assets {
		sb.WriteString(tag(relpath.Resolve(a, pagePath)))
	}
	return sb.String()
}

// Scripts replaces the scripts marker of the page at pagePath.
func Scripts(content, pagePath string, scripts []string) string {
	return Once(content, ScriptsMarker, Tags(scripts, pagePath, ScriptTag))
}

// Styles replaces the styles marker of the page at pagePath.
func Styles(content, pagePath string, styles []string) string {
	return Once(content, StylesMarker, Tags(styles, pagePath, StyleTag))
}

// Assets replaces every assets marker with the link from pagePath to the
// assets root. Without a root the link is ".".
func Assets(content, pagePath, assetsRoot string) string {
	link := "."
	if assetsRoot != "" {
		link = relpath.Resolve(assetsRoot, pagePath)
	}
	// A relative link never contains "{assets}".
	out, _ := Repeat(content, AssetsMarker, link)
	return out
}

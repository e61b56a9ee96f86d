// Package fragment splices pre-rendered UI fragments into pages.
//
// A fragment is joined to pages by an id derived from its module file name.
// Pages mark the insertion point with an `id="<id>">` anchor and may pass
// props as JSON in a `data-<id>=` attribute written right before it:
//
//	<div data-header='{"title":"Home"}' id="header"></div>
//
// The blob ends exactly two characters (closing quote and space) before the
// id attribute.
package fragment

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const staticMarker = ".static"

// Module is a fragment source as seen by the build host.
type Module struct {
	Path   string
	Suffix string // wrap mode is requested when it contains "provider"
}

// ModuleFromFile builds a Module from a file name such as
// Counter.static.provider.tpl, whose suffix is ".provider".
func ModuleFromFile(path string) Module {
	name := baseName(path)
	suffix := ""
	if i := strings.Index(name, staticMarker); i >= 0 {
		suffix = name[i+len(staticMarker):]
	}
	return Module{Path: path, Suffix: suffix}
}

// Wraps reports whether the fragment renders inside the store provider.
func (m Module) Wraps() bool {
	return strings.Contains(m.Suffix, "provider")
}

// ID is the anchor name for the module.
func (m Module) ID() string {
	return ID(m.Path)
}

// ID derives a fragment id from a module file name: the name before
// ".static", first character lower-cased. Header.static.tpl gives "header".
func ID(path string) string {
	name := baseName(path)
	if i := strings.Index(name, staticMarker); i >= 0 {
		name = name[:i]
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

// Anchor is the page substring after which the fragment is inserted.
func Anchor(id string) string {
	return `id="` + id + `">`
}

// DataAttr is the attribute prefix carrying the fragment props.
func DataAttr(id string) string {
	return "data-" + id + "="
}

func baseName(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

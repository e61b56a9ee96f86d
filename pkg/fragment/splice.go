package fragment

import (
	"errors"
	"html"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/toastate/hydrate/internal/tlogger"
	"github.com/toastate/hydrate/pkg/diag"
)

// Props is the decoded props blob of a fragment.
type Props map[string]any

var errMisplacedProps = errors.New("props attribute must sit right before the id attribute")

// HasAnchor reports whether content holds the anchor of id.
func HasAnchor(content, id string) bool {
	return strings.Contains(content, Anchor(id))
}

// Splice inserts rendered right after the first anchor of id. Content
// without the anchor is returned unchanged.
func Splice(content, id, rendered string) string {
	anchor := Anchor(id)
	loc := strings.Index(content, anchor)
	if loc < 0 {
		return content
	}
	cut := loc + len(anchor)
	return content[:cut] + rendered + content[cut:]
}

// ExtractProps reads the props blob of id. A missing blob yields empty props;
// a malformed or misplaced one yields empty props and a diagnostic.
func ExtractProps(content, id string) (Props, *diag.Diagnostic) {
	anchorLoc := strings.Index(content, Anchor(id))
	attr := DataAttr(id)
	attrLoc := strings.Index(content, attr)
	if anchorLoc < 0 || attrLoc < 0 {
		return Props{}, nil
	}

	start := attrLoc + len(attr) + 1
	end := anchorLoc - 2
	if start > end {
		tlogger.Error("builder", "fragment", "op", diag.OpProps, "msg", "Can't locate props", "fragment", id, "err", errMisplacedProps)
		return Props{}, diag.New(diag.OpProps, id, errMisplacedProps)
	}

	blob := content[start:end]
	props, err := decodeProps(blob)
	if err != nil {
		tlogger.Error("builder", "fragment", "op", diag.OpProps, "msg", "Can't parse props from html", "fragment", id, "data", blob, "err", err)
		return Props{}, diag.New(diag.OpProps, id, err)
	}

	tlogger.Debug("builder", "fragment", "msg", "props", "fragment", id, "data", lazy(func() string { return spew.Sdump(props) }))
	return props, nil
}

func decodeProps(blob string) (Props, error) {
	props, err := decodeObject([]byte(blob))
	if err == nil {
		if props == nil {
			props = Props{}
		}
		return props, nil
	}
	// Entity-encoded quotes, as written inside double-quoted attributes.
	if unescaped := html.UnescapeString(blob); unescaped != blob {
		if props, uerr := decodeObject([]byte(unescaped)); uerr == nil && props != nil {
			return props, nil
		}
	}
	return nil, err
}

// lazy defers building a log value until a logger formats it, so filtered
// out debug lines cost nothing.
type lazy func() string

func (f lazy) String() string {
	return f()
}

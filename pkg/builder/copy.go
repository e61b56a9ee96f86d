package builder

import (
	"path/filepath"
	"strings"

	"github.com/toastate/hydrate/internal/helpers"
	"github.com/toastate/hydrate/internal/tlogger"
	"github.com/toastate/hydrate/pkg/diag"
	"github.com/toastate/hydrate/pkg/pages"
)

func (b *Builder) pageMinifier() pages.Minifier {
	if b.conf.Minify.HTML {
		return b.minifier
	}
	return &pages.NOOPMinifier{}
}

// copyTree copies a static tree when both ends are configured. Files of
// mediatype are minified when enabled; a file failing to minify is copied
// as is.
func (b *Builder) copyTree(from, to, mediatype string) {
	if from == "" || to == "" {
		return
	}

	var transform helpers.Transform
	if b.shouldMinify(mediatype) {
		ext := extension(mediatype)
		transform = func(path string, content []byte) []byte {
			if !strings.EqualFold(filepath.Ext(path), ext) {
				return nil
			}
			out, err := b.minifier.Minify(mediatype, content)
			if err != nil {
				tlogger.Warn("builder", "copy", "msg", "Can't minify, copying source", "file", path, "err", err)
				return nil
			}
			return out
		}
	}

	if err := helpers.CopyTree(from, to, transform); err != nil {
		tlogger.Error("builder", "copy", "op", diag.OpCopy, "msg", "Can't copy tree", "from", from, "to", to, "err", err)
		b.Add(diag.New(diag.OpCopy, from, err))
		return
	}
	tlogger.Debug("builder", "copy", "msg", "copied", "from", from, "to", to)
}

func (b *Builder) shouldMinify(mediatype string) bool {
	switch mediatype {
	case pages.MediaCSS:
		return b.conf.Minify.CSS
	case pages.MediaJS:
		return b.conf.Minify.JS
	}
	return false
}

func extension(mediatype string) string {
	switch mediatype {
	case pages.MediaCSS:
		return ".css"
	case pages.MediaJS:
		return ".js"
	}
	return ""
}

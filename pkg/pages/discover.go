package pages

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/toastate/hydrate/internal/helpers"
	"github.com/toastate/hydrate/internal/tlogger"
	"github.com/toastate/hydrate/pkg/diag"
	"github.com/toastate/hydrate/pkg/inject"
)

// ErrMissingRoots is reported when discovery lacks its source or output tree.
var ErrMissingRoots = errors.New("html source and output directories are required")

// DiscoverOptions configures Discover.
type DiscoverOptions struct {
	From       string // html source tree
	Out        string // html output tree
	Ext        string // page extension, ".html" when empty
	AssetsRoot string // resolves the assets marker, "." when empty
	Minifier   Minifier
	Sink       diag.Sink
}

// Discover copies From to Out, then reads every page below Out. Pages are
// minified and their assets markers resolved. Pages come back in walk
// order. A page that can't be read is logged, reported and left out.
func Discover(o DiscoverOptions) []*Page {
	if o.Sink == nil {
		o.Sink = diag.Discard
	}
	if o.Minifier == nil {
		o.Minifier = &NOOPMinifier{}
	}
	if o.Ext == "" {
		o.Ext = ".html"
	}

	if o.From == "" || o.Out == "" {
		tlogger.Error("builder", "pages", "op", diag.OpDiscover, "msg", "Can't get html outputs paths", "err", ErrMissingRoots)
		o.Sink.Add(diag.New(diag.OpDiscover, "", ErrMissingRoots))
		return nil
	}

	if err := helpers.CopyTree(o.From, o.Out, nil); err != nil {
		tlogger.Error("builder", "pages", "op", diag.OpDiscover, "msg", "Can't copy html tree", "from", o.From, "to", o.Out, "err", err)
		o.Sink.Add(diag.New(diag.OpDiscover, o.From, err))
		return nil
	}

	files, err := helpers.ListFiles(o.Out, o.Ext)
	if err != nil {
		tlogger.Error("builder", "pages", "op", diag.OpDiscover, "msg", "Can't list html outputs", "path", o.Out, "err", err)
		o.Sink.Add(diag.New(diag.OpDiscover, o.Out, err))
		return nil
	}

	found := make([]*Page, len(files))
	var g errgroup.Group
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			p, err := readPage(path, o)
			if err != nil {
				tlogger.Error("builder", "pages", "op", diag.OpRead, "msg", "Can't read page", "file", path, "err", err)
				o.Sink.Add(diag.New(diag.OpRead, path, err))
				return nil
			}
			found[i] = p
			return nil
		})
	}
	// Workers report failures through the sink and always return nil.
	_ = g.Wait()

	out := make([]*Page, 0, len(found))
	for _, p := range found {
		if p != nil {
			out = append(out, p)
		}
	}

	tlogger.Debug("builder", "pages", "msg", "discovered", "count", len(out), "path", o.Out)
	return out
}

func readPage(path string, o DiscoverOptions) (*Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty page %s", path)
	}

	min, err := o.Minifier.Minify(MediaHTML, raw)
	if err != nil {
		tlogger.Warn("builder", "pages", "msg", "Can't minify page, keeping source", "file", path, "err", err)
		min = raw
	}

	return NewPage(path, inject.Assets(string(min), path, o.AssetsRoot)), nil
}

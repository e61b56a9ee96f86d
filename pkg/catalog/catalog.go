// Package catalog writes the JSON index of asset directories consumed by
// fragments at runtime.
package catalog

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/toastate/hydrate/internal/helpers"
	"github.com/toastate/hydrate/internal/tlogger"
	"github.com/toastate/hydrate/pkg/diag"
)

// DefaultName is the catalog file name used when none is configured.
const DefaultName = "galleries"

// Entry is one asset of a catalog.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Catalog maps a catalog name, a directory relative to the assets root, to
// its entries.
type Catalog map[string][]Entry

// FileName is the file a catalog named name is written to.
func FileName(name string) string {
	if name == "" {
		name = DefaultName
	}
	return name + ".data.json"
}

// Build lists every named directory under assetsRoot. A missing directory
// is logged, reported and yields an empty list.
func Build(names []string, assetsRoot string, sink diag.Sink) Catalog {
	if sink == nil {
		sink = diag.Discard
	}

	lists := make([][]Entry, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			entries, err := list(name, assetsRoot)
			if err != nil {
				tlogger.Error("builder", "catalog", "op", diag.OpCatalog, "msg", "Can't get files", "catalog", name, "err", err)
				sink.Add(diag.New(diag.OpCatalog, name, err))
				entries = []Entry{}
			}
			lists[i] = entries
			return nil
		})
	}
	// Workers report failures through the sink and always return nil.
	_ = g.Wait()

	out := make(Catalog, len(names))
	for i, name := range names {
		out[name] = lists[i]
	}
	return out
}

// Write builds the catalog and stores it as <assetsRoot>/<fileName>.data.json.
func Write(names []string, assetsRoot, fileName string, sink diag.Sink) error {
	c := Build(names, assetsRoot, sink)
	dest := filepath.Join(assetsRoot, FileName(fileName))
	if err := helpers.WriteJsonFile(dest, c); err != nil {
		tlogger.Error("builder", "catalog", "op", diag.OpWrite, "msg", "Can't write data", "file", dest, "err", err)
		if sink != nil {
			sink.Add(diag.New(diag.OpWrite, dest, err))
		}
		return err
	}
	tlogger.Debug("builder", "catalog", "msg", "written", "file", dest, "catalogs", len(c))
	return nil
}

func list(name, assetsRoot string) ([]Entry, error) {
	dirents, err := os.ReadDir(filepath.Join(assetsRoot, filepath.FromSlash(name)))
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		entries = append(entries, Entry{
			Name: strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
			Path: path.Join(name, d.Name()),
		})
	}
	return entries, nil
}

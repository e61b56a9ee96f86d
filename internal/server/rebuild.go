package server

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/toastate/hydrate/internal/tlogger"
	"github.com/toastate/hydrate/internal/watcher"
	"github.com/toastate/hydrate/pkg/builder"
)

// Quiet is how long sources must stay untouched before a rebuild starts.
var Quiet = 500 * time.Millisecond

// Rebuild watches the source trees of b and runs a build after every burst
// of changes, calling onBuilt after each successful one. It blocks until ctx
// is done.
func Rebuild(ctx context.Context, b *builder.Builder, onBuilt func()) error {
	if err := b.Init(); err != nil {
		return err
	}

	changes, err := watcher.Watch(ctx, b.SourceDirs()...)
	if err != nil {
		tlogger.Error("msg", "Can't watch sources", "err", err)
		return err
	}

	for batch := range watcher.Debounce(ctx, changes, Quiet) {
		batch = relevant(b, batch)
		if len(batch) == 0 {
			continue
		}
		tlogger.Debug("msg", "Rebuilding", "changes", len(batch))

		// Components and store may have changed on disk.
		if err := b.Reload(); err != nil {
			tlogger.Error("msg", "Can't reload builder", "err", err)
			continue
		}
		if err := b.Build(); err != nil {
			continue
		}
		if onBuilt != nil {
			onBuilt()
		}
	}
	return nil
}

// relevant drops the files a build writes itself.
func relevant(b *builder.Builder, paths []string) []string {
	out := paths[:0]
	catalogFile := b.CatalogFile()
	outDir := b.OutDir() + string(filepath.Separator)
	for _, p := range paths {
		if p == catalogFile || strings.HasPrefix(p, outDir) {
			continue
		}
		out = append(out, p)
	}
	return out
}

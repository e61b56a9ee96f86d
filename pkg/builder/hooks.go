package builder

import (
	"os"

	"github.com/google/uuid"

	"github.com/toastate/hydrate/internal/helpers"
	"github.com/toastate/hydrate/internal/tlogger"
	"github.com/toastate/hydrate/pkg/catalog"
	"github.com/toastate/hydrate/pkg/diag"
	"github.com/toastate/hydrate/pkg/fragment"
	"github.com/toastate/hydrate/pkg/inject"
	"github.com/toastate/hydrate/pkg/pages"
)

// OnStart clears the previous output, discovers the pages, copies the static
// trees and writes the asset catalog.
func (b *Builder) OnStart() error {
	if err := b.Init(); err != nil {
		return err
	}

	b.buildID = uuid.NewString()
	b.report.Reset()
	tlogger.Info("msg", "Building started", "build", b.buildID, "path", b.paths.Out)

	if err := os.RemoveAll(b.paths.Out); err != nil {
		tlogger.Error("builder", "start", "op", diag.OpRemove, "msg", "Failed to remove build folder", "path", b.paths.Out, "err", err)
		b.Add(diag.New(diag.OpRemove, b.paths.Out, err))
	}

	found := pages.Discover(pages.DiscoverOptions{
		From:       b.paths.HTMLFrom,
		Out:        b.paths.HTMLOut,
		Ext:        b.conf.HTMLExt,
		AssetsRoot: b.paths.AssetsRoot(),
		Minifier:   b.pageMinifier(),
		Sink:       b,
	})
	b.pages.Reset(found)
	b.recorder.PagesDiscovered(len(found))

	b.copyTree(b.paths.AssetsFrom, b.paths.AssetsOut, "")
	b.copyTree(b.paths.CSSFrom, b.paths.CSSOut, pages.MediaCSS)
	b.copyTree(b.paths.JSFrom, b.paths.JSOut, pages.MediaJS)

	if root := b.paths.AssetsRoot(); root != "" && len(b.conf.Galleries) > 0 {
		// Already logged and reported.
		_ = catalog.Write(b.conf.Galleries, root, b.conf.CatalogName, b)
	}
	return nil
}

// OnModule splices the fragment of reg into every page holding its anchor.
// A missing store for a wrapped fragment aborts the build.
func (b *Builder) OnModule(reg fragment.Registration) error {
	if err := b.Init(); err != nil {
		return err
	}

	id := reg.ID()
	for _, page := range b.pages.Pages() {
		spliced := false
		err := page.Update(func(content string) (string, error) {
			if !fragment.HasAnchor(content, id) {
				return content, nil
			}
			props, d := fragment.ExtractProps(content, id)
			b.Add(d)

			res, err := b.adapter.Render(reg.Module, reg.Component, props)
			if err != nil {
				return content, err
			}
			b.Add(res.Diag)

			spliced = true
			return fragment.Splice(content, id, res.HTML), nil
		})
		if err != nil {
			tlogger.Error("builder", "fragment", "msg", "Can't inject fragment", "fragment", id, "page", page.Path(), "err", err)
			return err
		}
		if spliced {
			b.recorder.FragmentSpliced(id)
			tlogger.Info("builder", "fragment", "msg", "Injected", "fragment", id, "page", page.Path())
		}
	}
	return nil
}

// OnEnd resolves the assets, styles and scripts markers of every page and
// writes it.
func (b *Builder) OnEnd() error {
	if err := b.Init(); err != nil {
		return err
	}

	scripts := b.listAssets(b.paths.JSOut, ".js")
	styles := b.listAssets(b.paths.StylesRoot(), ".css")
	assetsRoot := b.paths.AssetsRoot()

	for _, page := range b.pages.Pages() {
		path := page.Path()
		err := page.Update(func(content string) (string, error) {
			content = inject.Assets(content, path, assetsRoot)
			content = inject.Scripts(content, path, scripts)
			content = inject.Styles(content, path, styles)
			return content, nil
		})
		if err == nil {
			err = page.Write()
		}
		if err != nil {
			tlogger.Error("builder", "end", "op", diag.OpWrite, "msg", "Can't write page", "file", path, "err", err)
			b.Add(diag.New(diag.OpWrite, path, err))
		}
	}
	return nil
}

func (b *Builder) listAssets(dir, ext string) []string {
	files, err := helpers.ListFiles(dir, ext)
	if err != nil {
		tlogger.Error("builder", "end", "op", diag.OpList, "msg", "Can't list files", "path", dir, "err", err)
		b.Add(diag.New(diag.OpList, dir, err))
		return nil
	}
	return files
}

package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/toastate/hydrate/internal/tlogger"
	"github.com/toastate/hydrate/pkg/config"
	"github.com/toastate/hydrate/pkg/fragment"
	"github.com/toastate/hydrate/pkg/pages"
)

// ErrMissingOutDir aborts a build without an output directory.
var ErrMissingOutDir = config.ErrMissingOutDir

// Init is idempotent, multiple calls will only initialize the builder once
func (b *Builder) Init() error {
	if b.initialized {
		return nil
	}

	if b.conf == nil {
		b.conf = config.Config
	}

	paths, err := b.conf.Resolve()
	if err != nil {
		tlogger.Error("msg", "Invalid configuration", "err", err)
		return err
	}
	b.paths = paths

	pattern := b.conf.ModulePattern
	if pattern == "" {
		pattern = config.DefaultConfiguration().ModulePattern
	}
	b.modulePattern, err = regexp.Compile(pattern)
	if err != nil {
		tlogger.Error("msg", "Invalid module pattern", "pattern", pattern, "err", err)
		return err
	}

	b.minifier = &pages.NOOPMinifier{}
	if b.conf.Minify.HTML || b.conf.Minify.CSS || b.conf.Minify.JS {
		b.minifier = pages.NewMinifier()
	}

	store := b.opts.Store
	if store == nil {
		store, err = b.loadStore()
		if err != nil {
			return err
		}
	}
	b.adapter = &fragment.Adapter{Store: store, Sanitize: b.conf.SanitizeFragments}

	b.fragments = fragment.NewRegistry()
	if b.opts.Fragments != nil {
		for _, reg := range b.opts.Fragments.All() {
			if err := b.fragments.Register(reg.Module, reg.Component); err != nil {
				return err
			}
		}
	}
	if err := b.loadComponents(); err != nil {
		return err
	}

	b.initialized = true
	return nil
}

// Reload forgets the previous initialization, picking up new components,
// store and configuration changes.
func (b *Builder) Reload() error {
	b.initialized = false
	return b.Init()
}

func (b *Builder) loadStore() (*fragment.Store, error) {
	if b.paths.StoreState == "" && b.paths.Provider == "" {
		return nil, nil
	}
	if b.paths.StoreState == "" || b.paths.Provider == "" {
		tlogger.Warn("builder", "store", "msg", "Store needs both state_file and provider_template, wrap mode disabled")
		return nil, nil
	}

	state, err := fragment.LoadState(b.paths.StoreState)
	if err != nil {
		tlogger.Error("builder", "store", "msg", "Can't load store state", "file", b.paths.StoreState, "err", err)
		return nil, err
	}

	set, err := fragment.NewTemplateSet(filepath.Dir(b.paths.Provider))
	if err != nil {
		return nil, err
	}
	provider, err := fragment.LoadTemplate(set, b.paths.Provider)
	if err != nil {
		tlogger.Error("builder", "store", "msg", "Can't load provider template", "file", b.paths.Provider, "err", err)
		return nil, err
	}

	return &fragment.Store{State: state, Provider: provider}, nil
}

// loadComponents registers every template module below components_from.
// A template that fails to parse is reported and skipped.
func (b *Builder) loadComponents() error {
	if b.paths.Components == "" {
		return nil
	}

	set, err := fragment.NewTemplateSet(b.paths.Components)
	if err != nil {
		return err
	}

	return filepath.WalkDir(b.paths.Components, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(b.paths.Components, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel != "." && !b.ShouldHandle(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !b.ShouldHandle(rel) || !b.modulePattern.MatchString(d.Name()) {
			return nil
		}

		mod := fragment.ModuleFromFile(path)
		if _, ok := b.fragments.Lookup(mod.ID()); ok {
			// Registered explicitly, the Go component wins.
			return nil
		}

		tpl, err := fragment.LoadTemplate(set, path)
		if err != nil {
			tlogger.Error("builder", "fragment", "msg", "Can't load component", "file", path, "err", err)
			return nil
		}
		tlogger.Debug("builder", "fragment", "msg", "component registered", "fragment", mod.ID(), "file", path)
		return b.fragments.Register(mod, tpl)
	})
}

// ShouldHandle skips hidden, private and include-only sources.
func (b *Builder) ShouldHandle(name string) bool {
	folderList := strings.Split(name, string(filepath.Separator))
	for _, v := range folderList {
		if v == "includes" {
			return false
		}
		if len(v) > 0 && (v[0] == '.' || v[0] == '_') {
			return false
		}
	}
	return true
}

// IsModule reports whether path names a fragment module.
func (b *Builder) IsModule(path string) bool {
	return b.modulePattern != nil && b.modulePattern.MatchString(filepath.Base(path))
}

// Build runs a complete cycle: start, one module pass per registered
// fragment, end. Only fatal errors are returned; everything else is in
// Report.
func (b *Builder) Build() error {
	err := b.Init()
	if err != nil {
		return err
	}

	start := time.Now()
	err = b.build()
	b.recorder.BuildFinished(time.Since(start), err == nil)

	if err != nil {
		tlogger.Error("msg", "Build failed", "build", b.buildID, "err", err)
		return err
	}
	tlogger.Info("msg", "Building finished", "build", b.buildID, "path", b.paths.Out, "pages", b.pages.Len(), "diagnostics", b.report.Len(), "took", time.Since(start))
	return nil
}

func (b *Builder) build() error {
	if err := b.OnStart(); err != nil {
		return err
	}
	for _, reg := range b.fragments.All() {
		if err := b.OnModule(reg); err != nil {
			return err
		}
	}
	return b.OnEnd()
}

// BuildModule runs the module pass for a single file, as a host reporting
// the modules it loads would. Files that aren't modules are ignored.
func (b *Builder) BuildModule(path string) error {
	if err := b.Init(); err != nil {
		return err
	}
	if !b.IsModule(path) {
		return nil
	}
	reg, ok := b.fragments.Lookup(fragment.ID(path))
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModule, path)
	}
	return b.OnModule(reg)
}

// ErrUnknownModule is returned by BuildModule for modules never registered.
var ErrUnknownModule = errors.New("no component registered for module")

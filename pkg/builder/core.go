package builder

import (
	"path/filepath"
	"regexp"

	"github.com/toastate/hydrate/internal/metrics"
	"github.com/toastate/hydrate/pkg/catalog"
	"github.com/toastate/hydrate/pkg/config"
	"github.com/toastate/hydrate/pkg/diag"
	"github.com/toastate/hydrate/pkg/fragment"
	"github.com/toastate/hydrate/pkg/pages"
)

type Builder struct {
	opts *BuilderOpts

	initialized bool

	conf  *config.Configuration
	paths config.Paths

	modulePattern *regexp.Regexp
	minifier      pages.Minifier
	adapter       *fragment.Adapter

	pages     *pages.Registry
	fragments *fragment.Registry
	report    *diag.Report
	recorder  metrics.Recorder

	buildID string
}

// BuilderOpts wires optional collaborators. Zero values get defaults.
type BuilderOpts struct {
	// Fragments registered ahead of the build. They take precedence over
	// template modules found under components_from.
	Fragments *fragment.Registry
	// Store overrides the store loaded from configuration.
	Store    *fragment.Store
	Recorder metrics.Recorder
}

func NewBuilder(conf *config.Configuration, opts ...*BuilderOpts) *Builder {
	b := &Builder{
		conf:   conf,
		report: &diag.Report{},
		pages:  pages.NewRegistry(),
	}
	if len(opts) > 0 && opts[0] != nil {
		b.opts = opts[0]
	} else {
		b.opts = &BuilderOpts{}
	}
	b.recorder = b.opts.Recorder
	if b.recorder == nil {
		b.recorder = metrics.NoopRecorder{}
	}
	return b
}

// Hooks are the lifecycle phases a build host triggers.
type Hooks interface {
	OnStart() error
	OnModule(fragment.Registration) error
	OnEnd() error
}

var _ Hooks = (*Builder)(nil)

func (b *Builder) OutDir() string {
	return b.paths.Out
}

// Paths returns the resolved directories. Valid after Init.
func (b *Builder) Paths() config.Paths {
	return b.paths
}

// Pages is the page registry of the current cycle.
func (b *Builder) Pages() *pages.Registry {
	return b.pages
}

// Fragments is the fragment registry. Valid after Init.
func (b *Builder) Fragments() *fragment.Registry {
	return b.fragments
}

// Report holds the diagnostics of the current cycle.
func (b *Builder) Report() *diag.Report {
	return b.report
}

// CatalogFile is where the asset catalog is written, empty when disabled.
// Valid after Init.
func (b *Builder) CatalogFile() string {
	root := b.paths.AssetsRoot()
	if root == "" || len(b.conf.Galleries) == 0 {
		return ""
	}
	return filepath.Join(root, catalog.FileName(b.conf.CatalogName))
}

// SourceDirs lists the configured source trees. Valid after Init.
func (b *Builder) SourceDirs() []string {
	var dirs []string
	for _, d := range []string{
		b.paths.HTMLFrom,
		b.paths.CSSFrom,
		b.paths.JSFrom,
		b.paths.AssetsFrom,
		b.paths.Components,
	} {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	if b.paths.StoreState != "" {
		dirs = append(dirs, filepath.Dir(b.paths.StoreState))
	}
	if b.paths.Provider != "" && filepath.Dir(b.paths.Provider) != filepath.Dir(b.paths.StoreState) {
		dirs = append(dirs, filepath.Dir(b.paths.Provider))
	}
	return dirs
}

// BuildID identifies the current cycle in logs.
func (b *Builder) BuildID() string {
	return b.buildID
}

// Add records a diagnostic for the current cycle.
func (b *Builder) Add(d *diag.Diagnostic) {
	if d == nil {
		return
	}
	b.report.Add(d)
	b.recorder.Diagnostic(string(d.Op))
}

package fragment

import (
	"fmt"
	"os"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/toastate/hydrate/internal/helpers"
)

// Template is a Component backed by a pongo2 template. The template sees the
// props as `data`, the store state as `store` and, for providers, the
// wrapped fragment as `children` (print it with `{{ children|safe }}`).
type Template struct {
	name string
	tpl  *pongo2.Template
}

// NewTemplateSet returns a pongo2 set resolving includes from baseDir.
func NewTemplateSet(baseDir string) (*pongo2.TemplateSet, error) {
	registerFilters()
	loader, err := pongo2.NewLocalFileSystemLoader(baseDir)
	if err != nil {
		return nil, fmt.Errorf("fragment: template loader: %w", err)
	}
	return pongo2.NewSet("hydrate", loader), nil
}

// LoadTemplate parses the template file at path.
func LoadTemplate(set *pongo2.TemplateSet, path string) (*Template, error) {
	tpl, err := set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("fragment: load template %q: %w", path, err)
	}
	return &Template{name: path, tpl: tpl}, nil
}

// TemplateFromString parses an inline template.
func TemplateFromString(name, src string) (*Template, error) {
	registerFilters()
	tpl, err := pongo2.FromString(src)
	if err != nil {
		return nil, fmt.Errorf("fragment: parse template %q: %w", name, err)
	}
	return &Template{name: name, tpl: tpl}, nil
}

func (t *Template) Render(d Data) (string, error) {
	props := map[string]any(d.Props)
	if props == nil {
		props = map[string]any{}
	}
	state := d.State
	if state == nil {
		state = map[string]any{}
	}
	out, err := t.tpl.Execute(pongo2.Context{
		"data":     props,
		"store":    state,
		"children": d.Children,
	})
	if err != nil {
		return "", fmt.Errorf("fragment: execute template %q: %w", t.name, err)
	}
	return out, nil
}

// LoadState reads the JSON store state at path.
func LoadState(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	state, err := decodeObject(b)
	if err != nil {
		return nil, fmt.Errorf("fragment: decode store state %q: %w", path, err)
	}
	if state == nil {
		state = map[string]any{}
	}
	return state, nil
}

var filtersOnce sync.Once

func registerFilters() {
	filtersOnce.Do(func() {
		if !pongo2.FilterExists("json") {
			_ = pongo2.RegisterFilter("json", filterJSON)
		}
	})
}

func filterJSON(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	b, err := helpers.MarshalJson(in.Interface())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:json", OrigError: err}
	}
	return pongo2.AsSafeValue(string(b)), nil
}

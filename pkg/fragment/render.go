package fragment

import (
	"errors"
	"fmt"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/toastate/hydrate/internal/tlogger"
	"github.com/toastate/hydrate/pkg/diag"
)

// ErrMissingStore is returned when a fragment asks for wrap mode and no store
// provider is configured. It is fatal: the page would silently lose its
// interactivity otherwise.
var ErrMissingStore = errors.New("wrap mode requires a store and provider")

// Result is the outcome of a render. HTML is empty when Diag is set.
type Result struct {
	HTML string
	Diag *diag.Diagnostic
}

// Adapter turns a component and its props into HTML.
type Adapter struct {
	Store    *Store
	Sanitize bool
}

// Render renders c with props, inside the store provider when mod asks for
// wrap mode. Only a missing store is returned as an error; any other failure
// is logged and reported through Result.Diag with empty HTML.
func (a *Adapter) Render(mod Module, c Component, props Props) (Result, error) {
	wrap := mod.Wraps()
	if wrap && (a.Store == nil || a.Store.Provider == nil) {
		return Result{}, fmt.Errorf("%w: %s", ErrMissingStore, mod.Path)
	}

	data := Data{Props: props}
	if a.Store != nil {
		data.State = a.Store.State
	}

	out, err := c.Render(data)
	if err == nil && wrap {
		data.Children = out
		out, err = a.Store.Provider.Render(data)
	}
	if err != nil {
		tlogger.Error("builder", "fragment", "op", diag.OpRender, "msg", "Can't render fragment", "module", mod.Path, "err", err)
		return Result{Diag: diag.New(diag.OpRender, mod.Path, err)}, nil
	}

	if a.Sanitize {
		out = sanitizer().Sanitize(out)
	}
	return Result{HTML: out}, nil
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowDataAttributes()
		p.AllowAttrs("id", "class", "style").Globally()
		p.AllowAttrs("loading", "decoding").OnElements("img")
		policy = p
	})
	return policy
}

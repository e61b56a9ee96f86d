package fragment

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Data is what a component renders from.
type Data struct {
	Props    Props
	State    map[string]any // store state, nil without a store
	Children string         // rendered fragment, set for providers only
}

// Component renders a fragment to HTML.
type Component interface {
	Render(Data) (string, error)
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(Data) (string, error)

func (f ComponentFunc) Render(d Data) (string, error) {
	return f(d)
}

// Store is the state-provider capability used by wrap mode: every component
// sees State, and wrapped fragments are rendered as Provider's children.
type Store struct {
	State    map[string]any
	Provider Component
}

// Registration binds a fragment module to its component.
type Registration struct {
	Module    Module
	Component Component
}

func (r Registration) ID() string {
	return r.Module.ID()
}

// ErrDuplicateFragment is returned when two modules resolve to the same id.
var ErrDuplicateFragment = errors.New("fragment id already registered")

// Registry maps fragment ids to their registration, resolved before the
// build runs.
type Registry struct {
	mu   sync.RWMutex
	regs map[string]Registration
}

func NewRegistry() *Registry {
	return &Registry{regs: map[string]Registration{}}
}

// Register adds c for mod.
func (r *Registry) Register(mod Module, c Component) error {
	if c == nil {
		return fmt.Errorf("fragment %s: nil component", mod.Path)
	}
	id := mod.ID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.regs[id]; ok {
		return fmt.Errorf("%w: %q from %s and %s", ErrDuplicateFragment, id, prev.Module.Path, mod.Path)
	}
	r.regs[id] = Registration{Module: mod, Component: c}
	return nil
}

// Lookup returns the registration for id.
func (r *Registry) Lookup(id string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.regs[id]
	return reg, ok
}

// All returns every registration ordered by module path.
func (r *Registry) All() []Registration {
	r.mu.RLock()
	out := make([]Registration, 0, len(r.regs))
	for _, reg := range r.regs {
		out = append(out, reg)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Module.Path < out[j].Module.Path })
	return out
}

// Package diag carries the recoverable failures of a build: each one is
// logged where it happens and recorded so callers can inspect what was
// dropped without reading the console.
package diag

import (
	"fmt"
	"sync"
)

// Op tags the phase a diagnostic comes from.
type Op string

const (
	OpDiscover Op = "discover"
	OpRead     Op = "read"
	OpProps    Op = "props"
	OpRender   Op = "render"
	OpCatalog  Op = "catalog"
	OpCopy     Op = "copy"
	OpList     Op = "list"
	OpWrite    Op = "write"
	OpRemove   Op = "remove"
)

// Diagnostic describes one degraded result.
type Diagnostic struct {
	Op   Op
	Path string
	Err  error
}

func (d *Diagnostic) Error() string {
	if d.Path == "" {
		return fmt.Sprintf("%s: %v", d.Op, d.Err)
	}
	return fmt.Sprintf("%s %s: %v", d.Op, d.Path, d.Err)
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}

// New builds a diagnostic.
func New(op Op, path string, err error) *Diagnostic {
	return &Diagnostic{Op: op, Path: path, Err: err}
}

// Sink receives diagnostics.
type Sink interface {
	Add(*Diagnostic)
}

// Report collects the diagnostics of a build cycle. Safe for concurrent use.
type Report struct {
	mu    sync.Mutex
	items []*Diagnostic
}

// Add records d. Nil diagnostics are ignored.
func (r *Report) Add(d *Diagnostic) {
	if r == nil || d == nil {
		return
	}
	r.mu.Lock()
	r.items = append(r.items, d)
	r.mu.Unlock()
}

// All returns a copy of the recorded diagnostics.
func (r *Report) All() []*Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

// ByOp returns the diagnostics recorded for op.
func (r *Report) ByOp(op Op) []*Diagnostic {
	var out []*Diagnostic
	for _, d := range r.All() {
		if d.Op == op {
			out = append(out, d)
		}
	}
	return out
}

// Len is the number of recorded diagnostics.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Reset drops every recorded diagnostic.
func (r *Report) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Add(*Diagnostic) {}

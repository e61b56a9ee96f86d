// Package pages holds the output HTML pages of a build cycle. Every later
// phase mutates page text in place through a Registry.
package pages

import (
	"errors"
	"os"
	"sync"
)

// ErrWritten is returned when a page is mutated after being persisted.
var ErrWritten = errors.New("page already written")

// Page is one output file and its text. Mutations are serialized per page.
type Page struct {
	mu      sync.Mutex
	path    string
	content string
	written bool
}

func NewPage(path, content string) *Page {
	return &Page{path: path, content: content}
}

// Path is the absolute output file path.
func (p *Page) Path() string {
	return p.path
}

func (p *Page) Content() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content
}

// Update runs fn with exclusive access to the page text and stores its
// result. On error the text is left unchanged.
func (p *Page) Update(fn func(content string) (string, error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.written {
		return ErrWritten
	}
	next, err := fn(p.content)
	if err != nil {
		return err
	}
	p.content = next
	return nil
}

// Write persists the page. The page is inert afterwards.
func (p *Page) Write() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.written {
		return ErrWritten
	}
	if err := os.WriteFile(p.path, []byte(p.content), 0644); err != nil {
		return err
	}
	p.written = true
	return nil
}

// Registry is the set of pages discovered for a build cycle, addressed by
// stable index.
type Registry struct {
	mu    sync.RWMutex
	pages []*Page
}

func NewRegistry(pages ...*Page) *Registry {
	return &Registry{pages: pages}
}

// Reset replaces every page, starting a new cycle.
func (r *Registry) Reset(pages []*Page) {
	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages)
}

// Get returns the page at index i, or nil.
func (r *Registry) Get(i int) *Page {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.pages) {
		return nil
	}
	return r.pages[i]
}

// Pages returns a snapshot of the registered pages.
func (r *Registry) Pages() []*Page {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Page, len(r.pages))
	copy(out, r.pages)
	return out
}

// Lookup finds a page by path.
func (r *Registry) Lookup(path string) *Page {
	for _, p := range r.Pages() {
		if p.path == path {
			return p
		}
	}
	return nil
}

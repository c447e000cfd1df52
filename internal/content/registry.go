package content

import (
	"fmt"
	"io"
	"sync"
)

// Renderer writes one section of a result. Implementations must handle an absent value.
type Renderer interface {
	Title() string
	Render(w io.Writer, value Optional) error
}

// RendererFunc adapts a title and function to [Renderer].
type RendererFunc struct {
	Name string
	Fn   func(w io.Writer, value Optional) error
}

func (r RendererFunc) Title() string { return r.Name }

func (r RendererFunc) Render(w io.Writer, value Optional) error { return r.Fn(w, value) }

// Tab is one entry of the section navigation.
type Tab struct {
	Section Section
	Title   string
}

// Registry maps sections to renderers and keeps registration order for tabs.
type Registry struct {
	mu        sync.RWMutex
	renderers map[Section]Renderer
	order     []Section
}

// NewRegistry creates an empty [Registry].
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[Section]Renderer)}
}

// Register adds or replaces the renderer for section. Replacing keeps the original position.
func (r *Registry) Register(section Section, renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[section]; !exists {
		r.order = append(r.order, section)
	}
	r.renderers[section] = renderer
}

// Renderer returns the renderer for section.
func (r *Registry) Renderer(section Section) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rn, ok := r.renderers[section]
	return rn, ok
}

// Tabs returns every registered section in registration order.
func (r *Registry) Tabs() []Tab {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tabs := make([]Tab, 0, len(r.order))
	for _, s := range r.order {
		tabs = append(tabs, Tab{Section: s, Title: r.renderers[s].Title()})
	}
	return tabs
}

// Render looks up section in raw and writes it with the registered renderer.
func (r *Registry) Render(w io.Writer, raw []byte, section Section) error {
	rn, ok := r.Renderer(section)
	if !ok {
		return fmt.Errorf("no renderer registered for section %q", section)
	}
	return rn.Render(w, Lookup(raw, section))
}

package window

import (
	"sync"

	"github.com/1broseidon/vidwin/internal/platform"
)

// Registry maps native window handles to the context that owns them.
type Registry struct {
	mu      sync.RWMutex
	windows map[platform.Handle]*Window
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{windows: make(map[platform.Handle]*Window)}
}

// Add associates h with w, replacing any previous owner.
func (r *Registry) Add(h platform.Handle, w *Window) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.windows[h] = w
}

// Remove forgets h.
func (r *Registry) Remove(h platform.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.windows, h)
}

// Lookup returns the owner of h, or nil for handles nobody registered.
func (r *Registry) Lookup(h platform.Handle) *Window {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.windows[h]
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.windows)
}

package dispatcher

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/wmkeys/internal/dispatcher/handler"
)

// Registry owns handlers by name. Bindings refer to handlers by name and
// resolve them at dispatch time.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*handler.Handler
}

// NewRegistry creates a new handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]*handler.Handler),
	}
}

// Register adds h. Names are unique.
func (r *Registry) Register(h *handler.Handler) error {
	if h == nil || h.Name == "" {
		return ErrInvalidHandler
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[h.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, h.Name)
	}
	r.handlers[h.Name] = h
	return nil
}

// Unregister removes the handler named name and releases its data.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	h, ok := r.handlers[name]
	delete(r.handlers, name)
	r.mu.Unlock()

	if ok {
		h.Close()
	}
	return ok
}

// Get returns the handler named name, or nil.
func (r *Registry) Get(name string) *handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[name]
}

// ByAction returns the handler for action, or nil.
func (r *Registry) ByAction(action handler.Action) *handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.handlers {
		if h.Action == action {
			return h
		}
	}
	return nil
}

// SetCustom overrides the callback of the handler named name.
func (r *Registry) SetCustom(name string, fn handler.Func, data any, destroy func(any)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.handlers[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, name)
	}
	h.SetCustom(fn, data, destroy)
	return nil
}

// Has returns true if a handler is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// List returns all registered handler names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered handlers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Clear removes all handlers, releasing their data.
func (r *Registry) Clear() {
	r.mu.Lock()
	old := r.handlers
	r.handlers = make(map[string]*handler.Handler)
	r.mu.Unlock()

	for _, h := range old {
		h.Close()
	}
}

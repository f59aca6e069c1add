package ui

import "sync"

// Root is the top-level display container. It is safe for concurrent use.
type Root struct {
	mu      sync.RWMutex
	widgets []Widget
	version uint64
}

// NewRoot creates an empty display root.
func NewRoot() *Root {
	return &Root{}
}

// Clear removes every widget.
func (r *Root) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widgets = nil
	r.version++
}

// Add appends a widget.
func (r *Root) Add(w Widget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widgets = append(r.widgets, w)
	r.version++
}

// Widgets returns a snapshot of the displayed widgets.
func (r *Root) Widgets() []Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Widget(nil), r.widgets...)
}

// Version increases on every change. Hosts use it to detect stale renders.
func (r *Root) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Touch marks the root as changed without altering its widgets, for
// mutations made deeper in the tree (layer swaps, label updates).
func (r *Root) Touch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.version++
}

// Walk visits every widget reachable from the root, depth first.
func (r *Root) Walk(fn func(Widget) bool) {
	for _, w := range r.Widgets() {
		if !walk(w, fn) {
			return
		}
	}
}

func walk(w Widget, fn func(Widget) bool) bool {
	if !fn(w) {
		return false
	}
	if c, ok := w.(Container); ok {
		for _, child := range c.Widgets() {
			if !walk(child, fn) {
				return false
			}
		}
	}
	return true
}

// Maps returns every map reachable from the root in visit order.
func (r *Root) Maps() []*Map {
	var maps []*Map
	r.Walk(func(w Widget) bool {
		if m, ok := w.(*Map); ok {
			maps = append(maps, m)
		}
		return true
	})
	return maps
}

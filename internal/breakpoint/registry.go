package breakpoint

import (
	"slices"
	"sync"
)

// Registry maps record tags to processors.
type Registry struct {
	mu    sync.RWMutex
	procs map[string]Processor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]Processor)}
}

// Default returns a registry holding the return processor.
func Default() *Registry {
	r := NewRegistry()
	r.Register(ReturnTag, Return{})
	return r
}

// Register binds tag to p. It reports true when an earlier processor
// was replaced.
func (r *Registry) Register(tag string, p Processor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced := r.procs[tag]
	r.procs[tag] = p
	return replaced
}

// Lookup returns the processor of tag.
func (r *Registry) Lookup(tag string) (Processor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.procs[tag]
	return p, ok
}

// Tags lists registered tags, sorted.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.procs))
	for t := range r.procs {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

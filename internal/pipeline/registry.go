package pipeline

import (
	"sort"
	"sync"
)

// Registry manages pipeline discovery and lookup
type Registry struct {
	mu        sync.RWMutex
	pipelines map[string]*Definition
	loader    *Loader
}

// NewRegistry creates a new pipeline registry with the given loader
func NewRegistry(loader *Loader) *Registry {
	return &Registry{
		pipelines: make(map[string]*Definition),
		loader:    loader,
	}
}

// Refresh reloads all pipelines from disk
func (r *Registry) Refresh() error {
	defs, err := r.loader.LoadAll()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pipelines = make(map[string]*Definition)
	for _, def := range defs {
		r.pipelines[def.Name] = def
	}

	return nil
}

// Get returns a pipeline by name
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.pipelines[name]
	return def, ok
}

// Register manually adds a pipeline to the registry
func (r *Registry) Register(def *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelines[def.Name] = def
}

// List returns all registered pipelines in name order
func (r *Registry) List() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*Definition, 0, len(r.pipelines))
	for _, def := range r.pipelines {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Count returns the number of registered pipelines
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pipelines)
}

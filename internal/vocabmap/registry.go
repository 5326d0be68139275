package vocabmap

import (
	"sort"
	"sync"
)

// Registry manages vocabulary map discovery and lookup
type Registry struct {
	mu     sync.RWMutex
	maps   map[string]*Map
	loader *Loader
}

// NewRegistry creates a new map registry with the given loader
func NewRegistry(loader *Loader) *Registry {
	return &Registry{
		maps:   make(map[string]*Map),
		loader: loader,
	}
}

// Refresh reloads all maps from disk
func (r *Registry) Refresh() error {
	maps, err := r.loader.LoadAll()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.maps = make(map[string]*Map)
	for _, m := range maps {
		r.maps[m.Name] = m
	}

	return nil
}

// Get returns a map by name
func (r *Registry) Get(name string) (*Map, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.maps[name]
	return m, ok
}

// Register manually adds a map to the registry
func (r *Registry) Register(m *Map) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maps[m.Name] = m
}

// List returns all registered maps in name order
func (r *Registry) List() []*Map {
	r.mu.RLock()
	defer r.mu.RUnlock()

	maps := make([]*Map, 0, len(r.maps))
	for _, m := range r.maps {
		maps = append(maps, m)
	}
	sort.Slice(maps, func(i, j int) bool { return maps[i].Name < maps[j].Name })
	return maps
}

// ListByTag returns maps that have the given tag
func (r *Registry) ListByTag(tag string) []*Map {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var maps []*Map
	for _, m := range r.maps {
		for _, t := range m.Tags {
			if t == tag {
				maps = append(maps, m)
				break
			}
		}
	}
	return maps
}

// Count returns the number of registered maps
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.maps)
}

// Default returns the built-in biomedical map. It is used when no map
// is named on the command line and no map called "default" exists on
// disk.
func Default() *Map {
	return &Map{
		Name:        "default",
		Description: "Built-in biomedical entity mapping",
		Entities: map[string]string{
			"Disease":           "mondo",
			"Phenotype":         "hp",
			"BiologicalProcess": "go",
			"ChemicalEntity":    "chebi",
			"AnatomicalEntity":  "uberon",
			"CellType":          "cl",
		},
	}
}

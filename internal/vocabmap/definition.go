// Package vocabmap provides named entity-type to vocabulary mappings.
// Maps are lighter-weight than agents: they are plain YAML files that
// tell the grounding engine which vocabulary to consult for each
// entity type, and can be shared between agents and the CLI.
package vocabmap

import "sort"

// Map pairs entity types with vocabulary handles.
type Map struct {
	// Name is the unique identifier for this map
	Name string `yaml:"name"`

	// Description is shown in listings
	Description string `yaml:"description"`

	// Entities maps an entity type to the vocabulary handle used to
	// ground it, e.g. Disease: mondo
	Entities map[string]string `yaml:"entities"`

	// Tags for categorization and discovery
	Tags []string `yaml:"tags"`

	// FilePath is the source file (populated by loader)
	FilePath string `yaml:"-"`

	// IsGlobal indicates if loaded from global config
	IsGlobal bool `yaml:"-"`
}

// Validate checks the map has a name and at least one entry.
func (m *Map) Validate() error {
	if m.Name == "" {
		return ErrMissingName
	}
	if len(m.Entities) == 0 {
		return ErrNoEntities
	}
	for entityType, vocabulary := range m.Entities {
		if entityType == "" || vocabulary == "" {
			return ErrInvalidEntry
		}
	}
	return nil
}

// EntityTypes returns the sorted entity types in the map.
func (m *Map) EntityTypes() []string {
	types := make([]string, 0, len(m.Entities))
	for t := range m.Entities {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Merge returns a copy of the map with entries from other laid over
// it. Entries in other win on conflict.
func (m *Map) Merge(other *Map) map[string]string {
	merged := make(map[string]string, len(m.Entities)+len(other.Entities))
	for k, v := range m.Entities {
		merged[k] = v
	}
	for k, v := range other.Entities {
		merged[k] = v
	}
	return merged
}

package vocabmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles discovery and parsing of vocabulary maps
type Loader struct {
	paths      []string
	globalPath string // The known global config path
}

// NewLoader creates a loader that searches the given paths
func NewLoader(paths []string) *Loader {
	globalPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		globalPath = filepath.Join(home, ".config", "ontoground", "maps")
	}
	return &Loader{paths: paths, globalPath: globalPath}
}

// LoadAll loads all vocabulary maps from configured paths
func (l *Loader) LoadAll() ([]*Map, error) {
	var maps []*Map

	for _, basePath := range l.paths {
		isGlobal := l.globalPath != "" && basePath == l.globalPath

		entries, err := os.ReadDir(basePath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			name := entry.Name()
			if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
				continue
			}

			filePath := filepath.Join(basePath, name)
			m, err := l.LoadFromFile(filePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to load vocabulary map from %s: %v\n", filePath, err)
				continue
			}

			m.IsGlobal = isGlobal
			maps = append(maps, m)
		}
	}

	return maps, nil
}

// LoadFromFile parses a single YAML vocabulary map file
func (l *Loader) LoadFromFile(filePath string) (*Map, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	m, err := ParseMap(content)
	if err != nil {
		return nil, err
	}

	m.FilePath = filePath
	return m, nil
}

// ParseMap parses YAML content into a validated Map
func ParseMap(content []byte) (*Map, error) {
	var m Map
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// DefaultPaths returns the default map search paths
func DefaultPaths() []string {
	paths := []string{}

	cwd, err := os.Getwd()
	if err == nil {
		paths = append(paths, filepath.Join(cwd, ".ontoground", "maps"))
	}

	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ontoground", "maps"))
	}

	return paths
}

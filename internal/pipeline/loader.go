package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles discovery and parsing of pipeline definitions
type Loader struct {
	paths      []string
	globalPath string // The known global config path
}

// NewLoader creates a loader that searches the given paths
func NewLoader(paths []string) *Loader {
	globalPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		globalPath = filepath.Join(home, ".config", "ontoground", "pipelines")
	}
	return &Loader{paths: paths, globalPath: globalPath}
}

// LoadAll loads all pipeline definitions from configured paths
func (l *Loader) LoadAll() ([]*Definition, error) {
	var defs []*Definition

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
			def, err := l.LoadFromFile(filePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to load pipeline from %s: %v\n", filePath, err)
				continue
			}

			def.IsGlobal = isGlobal
			defs = append(defs, def)
		}
	}

	return defs, nil
}

// LoadFromFile parses a single YAML pipeline file
func (l *Loader) LoadFromFile(filePath string) (*Definition, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	def, err := ParseDefinition(content)
	if err != nil {
		return nil, err
	}

	def.FilePath = filePath
	return def, nil
}

// ParseDefinition parses YAML content into a validated Definition
func ParseDefinition(content []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(content, &def); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// DefaultPaths returns the default pipeline search paths
func DefaultPaths() []string {
	paths := []string{}

	cwd, err := os.Getwd()
	if err == nil {
		paths = append(paths, filepath.Join(cwd, ".ontoground", "pipelines"))
	}

	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ontoground", "pipelines"))
	}

	return paths
}

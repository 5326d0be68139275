package agents

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatter is the YAML header of an agent markdown file. The
// markdown body below the closing marker becomes the system prompt.
type frontmatter struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	Tools         []string          `yaml:"tools"`
	Vocabularies  map[string]string `yaml:"vocabularies"`
	MaxIterations int               `yaml:"max_iterations"`
}

// Loader discovers agent markdown files in the configured directories
type Loader struct {
	paths      []string
	globalPath string // The known global config path
}

// NewLoader creates a new agent loader with the given search paths
func NewLoader(paths []string) *Loader {
	globalPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		globalPath = filepath.Join(home, ".config", "ontoground", "agents")
	}
	return &Loader{paths: paths, globalPath: globalPath}
}

// LoadAll loads agent definitions from all configured paths
func (l *Loader) LoadAll() ([]*AgentDefinition, error) {
	var agents []*AgentDefinition
	for _, dir := range l.paths {
		loaded, err := l.loadDir(dir)
		if err != nil {
			return nil, err
		}
		agents = append(agents, loaded...)
	}
	return agents, nil
}

// loadDir loads the .md files of one directory. Files that fail to
// parse are skipped with a warning so one broken agent does not hide
// the rest.
func (l *Loader) loadDir(dir string) ([]*AgentDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading agent directory %s: %w", dir, err)
	}

	isGlobal := l.globalPath != "" && dir == l.globalPath

	var agents []*AgentDefinition
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		filePath := filepath.Join(dir, entry.Name())
		agent, err := l.LoadFromFile(filePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load agent from %s: %v\n", filePath, err)
			continue
		}

		agent.IsGlobal = isGlobal
		agents = append(agents, agent)
	}
	return agents, nil
}

// LoadFromFile parses a single agent markdown file
func (l *Loader) LoadFromFile(filePath string) (*AgentDefinition, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	agent, err := ParseAgentMarkdown(string(content))
	if err != nil {
		return nil, err
	}

	agent.FilePath = filePath
	return agent, nil
}

// ParseAgentMarkdown builds a validated AgentDefinition from markdown
// content with YAML frontmatter. Vocabulary handles are checked here
// so a bad agent file fails at load time, not at the first grounding
// call.
func ParseAgentMarkdown(content string) (*AgentDefinition, error) {
	header, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}

	for entityType, handle := range fm.Vocabularies {
		if handle == "" || strings.ContainsAny(handle, " \t") {
			return nil, fmt.Errorf("%w: %q for entity type %q", ErrInvalidVocabulary, handle, entityType)
		}
	}

	agent := &AgentDefinition{
		Name:          fm.Name,
		Description:   fm.Description,
		SystemPrompt:  body,
		Tools:         fm.Tools,
		Vocabularies:  fm.Vocabularies,
		MaxIterations: fm.MaxIterations,
	}
	if err := agent.Validate(); err != nil {
		return nil, err
	}
	return agent, nil
}

// splitFrontmatter separates the YAML header from the markdown body.
// The header must open with --- on the first line and close with a
// line starting ---.
func splitFrontmatter(content string) (header, body string, err error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)

	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return "", "", ErrNoFrontmatter
	}

	header, body, ok = strings.Cut(rest, "\n---")
	if !ok {
		return "", "", ErrNoFrontmatter
	}
	return strings.TrimSpace(header), strings.TrimSpace(body), nil
}

// DefaultPaths returns the default agent search paths
func DefaultPaths() []string {
	paths := []string{}

	cwd, err := os.Getwd()
	if err == nil {
		paths = append(paths, filepath.Join(cwd, ".ontoground", "agents"))
	}

	home, err := os.UserHomeDir()
	if err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ontoground", "agents"))
	}

	return paths
}

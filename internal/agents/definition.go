package agents

import "strings"

// AgentDefinition represents a curation agent, either registered in
// code or assembled from a markdown file's frontmatter and body
type AgentDefinition struct {
	// Name is the unique identifier for the agent
	Name string

	// Description is a brief explanation of what the agent does
	Description string

	// SystemPrompt defines the agent's behavior and instructions
	SystemPrompt string

	// Tools is the list of tool names this agent can use.
	// Empty means all tools are available.
	Tools []string

	// Vocabularies maps entity types to the vocabulary handles the
	// agent grounds them against, e.g. {Disease: mondo, Phenotype: hp}.
	// Empty means the configured defaults apply.
	Vocabularies map[string]string

	// MaxIterations is the maximum number of LLM calls per run.
	// Default is 10 if not specified.
	MaxIterations int

	// FilePath is the source file this definition was loaded from
	FilePath string

	// IsGlobal indicates if this agent was loaded from global config
	// (as opposed to project-local .ontoground/agents/)
	IsGlobal bool

	// IsBuiltin marks agents registered in code rather than from disk
	IsBuiltin bool
}

// Validate checks if the agent definition is valid
func (d *AgentDefinition) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	// Check for reserved names (case-insensitive)
	if ReservedNames[strings.ToLower(d.Name)] {
		return ErrReservedName
	}
	if d.SystemPrompt == "" {
		return ErrMissingSystemPrompt
	}
	return nil
}

// HasRestrictedTools returns true if the agent has a limited tool set
func (d *AgentDefinition) HasRestrictedTools() bool {
	return len(d.Tools) > 0
}

// GetMaxIterations returns the max iterations, defaulting to 10
func (d *AgentDefinition) GetMaxIterations() int {
	if d.MaxIterations <= 0 {
		return 10
	}
	return d.MaxIterations
}

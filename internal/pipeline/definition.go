// Package pipeline runs multi-step curation pipelines: sequences of
// agent executions where each step can read the output of earlier
// steps, e.g. extract mentions first and review the groundings after.
package pipeline

// Definition represents a pipeline loaded from YAML
type Definition struct {
	// Name is the unique identifier for the pipeline
	Name string `yaml:"name"`

	// Description explains what the pipeline does
	Description string `yaml:"description"`

	// Steps defines the sequence of agent executions
	Steps []Step `yaml:"steps"`

	// FilePath is the source file this definition was loaded from
	FilePath string `yaml:"-"`

	// IsGlobal indicates if loaded from global config
	IsGlobal bool `yaml:"-"`
}

// Step defines a single step in a pipeline
type Step struct {
	// Name identifies this step (for referencing its output)
	Name string `yaml:"name"`

	// Agent is the name of the agent to execute
	Agent string `yaml:"agent"`

	// Prompt is the prompt template for this step. It supports
	// {user_input} and {step_name.output} placeholders. Empty means
	// the pipeline's initial prompt is used as is.
	Prompt string `yaml:"prompt"`

	// Map overrides the vocabulary map for this step's grounding tools
	Map string `yaml:"map"`
}

// Validate checks the pipeline definition is well formed
func (d *Definition) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	if len(d.Steps) == 0 {
		return ErrNoSteps
	}
	seen := make(map[string]bool, len(d.Steps))
	for _, step := range d.Steps {
		if step.Name == "" || step.Agent == "" {
			return ErrInvalidStep
		}
		if seen[step.Name] {
			return ErrDuplicateStep
		}
		seen[step.Name] = true
	}
	return nil
}

package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mireles/ontoground/internal/agents"
)

// AgentRunner executes a single agent prompt. *agents.Executor
// satisfies it.
type AgentRunner interface {
	Execute(ctx context.Context, def *agents.AgentDefinition, prompt string) (*agents.ExecuteResult, error)
}

// MapResolver resolves a vocabulary map name to its entity-type
// mapping. Steps that set a map use it to override the agent's
// grounding vocabularies.
type MapResolver func(name string) (map[string]string, error)

// Engine runs pipelines step by step
type Engine struct {
	agents     *agents.Registry
	runner     AgentRunner
	resolveMap MapResolver
}

// NewEngine creates a pipeline engine. resolveMap may be nil when no
// pipeline uses per-step map overrides.
func NewEngine(agentRegistry *agents.Registry, runner AgentRunner, resolveMap MapResolver) *Engine {
	return &Engine{
		agents:     agentRegistry,
		runner:     runner,
		resolveMap: resolveMap,
	}
}

// StepResult records the outcome of a single pipeline step
type StepResult struct {
	Step      string
	Agent     string
	Output    string
	ToolCalls int
}

// Result contains the outcome of a pipeline run
type Result struct {
	Pipeline string
	Steps    []StepResult

	// Output is the final step's response
	Output string
}

// Run executes the pipeline sequentially. Each step's prompt may
// reference {user_input} and the output of any earlier step via
// {step_name.output}.
func (e *Engine) Run(ctx context.Context, def *Definition, userInput string) (*Result, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Pipeline: def.Name,
		Steps:    make([]StepResult, 0, len(def.Steps)),
	}
	outputs := make(map[string]string, len(def.Steps))

	for _, step := range def.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w at step %q: %v", ErrAborted, step.Name, err)
		}

		agentDef, ok := e.agents.Get(step.Agent)
		if !ok {
			return nil, fmt.Errorf("%w: step %q needs agent %q", ErrAgentNotFound, step.Name, step.Agent)
		}
		agentDef = e.applyMapOverride(agentDef, step)

		prompt := renderPrompt(step.Prompt, userInput, outputs)

		execResult, err := e.runner.Execute(ctx, agentDef, prompt)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", step.Name, err)
		}

		outputs[step.Name] = execResult.Response
		result.Steps = append(result.Steps, StepResult{
			Step:      step.Name,
			Agent:     step.Agent,
			Output:    execResult.Response,
			ToolCalls: len(execResult.ToolCalls),
		})
	}

	if n := len(result.Steps); n > 0 {
		result.Output = result.Steps[n-1].Output
	}
	return result, nil
}

// applyMapOverride returns a copy of the agent definition with its
// grounding vocabularies replaced by the step's map, when set.
func (e *Engine) applyMapOverride(def *agents.AgentDefinition, step Step) *agents.AgentDefinition {
	if step.Map == "" || e.resolveMap == nil {
		return def
	}

	entities, err := e.resolveMap(step.Map)
	if err != nil {
		// Fall back to the agent's own vocabularies; the step
		// still runs, tools just ground against the defaults.
		fmt.Fprintf(os.Stderr, "Warning: step %q: %v\n", step.Name, err)
		return def
	}

	override := *def
	override.Vocabularies = entities
	return &override
}

// renderPrompt substitutes {user_input} and {step_name.output}
// placeholders. An empty template means the raw user input.
func renderPrompt(template, userInput string, outputs map[string]string) string {
	if template == "" {
		return userInput
	}

	pairs := make([]string, 0, 2+2*len(outputs))
	pairs = append(pairs, "{user_input}", userInput)
	for name, output := range outputs {
		pairs = append(pairs, "{"+name+".output}", output)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

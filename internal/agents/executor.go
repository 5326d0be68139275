package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mireles/ontoground/internal/grounding"
	"github.com/mireles/ontoground/internal/llm"
	"github.com/mireles/ontoground/internal/tools"
)

// Executor handles execution of curation agents
type Executor struct {
	provider     llm.Provider
	searcher     *grounding.Searcher
	vocabularies map[string]string
	webSearchURL string
}

// NewExecutor creates a new agent executor. The vocabularies map is
// the default entity-type to vocabulary mapping; agents can override
// it in their frontmatter.
func NewExecutor(provider llm.Provider, searcher *grounding.Searcher, vocabularies map[string]string, webSearchURL string) *Executor {
	return &Executor{
		provider:     provider,
		searcher:     searcher,
		vocabularies: vocabularies,
		webSearchURL: webSearchURL,
	}
}

// ExecuteResult contains the result of executing an agent
type ExecuteResult struct {
	Response  string
	ToolCalls []ToolExecution
}

// ToolExecution records a tool call and its result
type ToolExecution struct {
	ID     string
	Name   string
	Args   string
	Result string
	Error  string

	retryable bool
}

// Execute runs an agent with the given prompt. The agent loops over
// LLM calls and tool executions until the model answers without
// requesting a tool, or the iteration budget runs out.
func (e *Executor) Execute(ctx context.Context, def *AgentDefinition, userPrompt string) (*ExecuteResult, error) {
	toolProvider, ok := e.provider.(llm.ToolProvider)
	if !ok {
		return nil, fmt.Errorf("provider does not support native tool calling")
	}

	registry := e.buildRegistry(def)
	systemPrompt := buildSystemPrompt(def, registry)
	providerTools := registry.ProviderTools()

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	result := &ExecuteResult{
		ToolCalls: []ToolExecution{},
	}

	maxIterations := def.GetMaxIterations()
	for i := 0; i < maxIterations; i++ {
		resp, err := toolProvider.GenerateWithTools(ctx, messages, providerTools)
		if err != nil {
			return nil, err
		}

		if len(resp.ToolCalls) == 0 {
			result.Response = resp.Content
			return result, nil
		}

		execResults := e.executeToolCalls(ctx, registry, resp.ToolCalls)
		result.ToolCalls = append(result.ToolCalls, execResults...)

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, exec := range execResults {
			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    exec.feedback(),
				Name:       exec.Name,
				ToolCallID: exec.ID,
			})
		}
	}

	return nil, fmt.Errorf("max iterations (%d) reached", maxIterations)
}

// feedback renders the execution for the model. Retryable failures
// invite the model to correct its arguments rather than give up.
func (t ToolExecution) feedback() string {
	if t.Error == "" {
		return t.Result
	}
	if t.retryable {
		return "Error: " + t.Error + "\nYou may adjust the arguments and call the tool again."
	}
	return "Error: " + t.Error
}

// buildRegistry creates a tool registry for the agent
func (e *Executor) buildRegistry(def *AgentDefinition) *tools.Registry {
	vocabularies := e.vocabularies
	if len(def.Vocabularies) > 0 {
		vocabularies = def.Vocabularies
	}

	available := []tools.Tool{
		tools.NewSearchOntologyTool(e.searcher),
		tools.NewGroundEntitiesTool(e.searcher, vocabularies),
		tools.NewWebSearchTool(e.webSearchURL),
		tools.NewFetchPageTool(),
		tools.NewReadFileTool(),
	}

	registry := tools.NewRegistry()
	if len(def.Tools) == 0 {
		for _, tool := range available {
			registry.Register(tool)
		}
		return registry
	}

	allowed := make(map[string]bool, len(def.Tools))
	for _, name := range def.Tools {
		allowed[name] = true
	}
	for _, tool := range available {
		if allowed[tool.Definition().Name] {
			registry.Register(tool)
		}
	}
	return registry
}

// buildSystemPrompt combines the agent's prompt with the shared
// curation guidance. Tool definitions are passed separately via the
// native tool calling API.
func buildSystemPrompt(def *AgentDefinition, registry *tools.Registry) string {
	return def.SystemPrompt + "\n\n" + registry.BuildSystemPrompt()
}

// executeToolCalls executes the tool calls requested by the model
func (e *Executor) executeToolCalls(ctx context.Context, registry *tools.Registry, toolCalls []llm.ToolCall) []ToolExecution {
	results := make([]ToolExecution, len(toolCalls))

	for i, tc := range toolCalls {
		toolResult := registry.Execute(ctx, tools.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: parseToolArgs(tc.Function.Arguments),
		})

		results[i] = ToolExecution{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Args:      tc.Function.Arguments,
			Result:    toolResult.Output,
			Error:     toolResult.Error,
			retryable: toolResult.Retryable,
		}
	}

	return results
}

// parseToolArgs parses JSON arguments into a map
func parseToolArgs(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		if os.Getenv("ONTOGROUND_DEBUG") != "" {
			fmt.Fprintf(os.Stderr, "[DEBUG parseToolArgs] failed to parse: %v, input: %q\n", err, argsJSON)
		}
		return make(map[string]any)
	}
	return args
}

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mireles/ontoground/internal/llm"
)

// Tool is a capability the curation agents expose to the model. The
// definition doubles as the argument contract: the registry checks
// every call against its schema before dispatching.
type Tool interface {
	Definition() ToolDefinition
	Execute(ctx context.Context, args map[string]any) ToolResult
}

// Registry manages tool registration and execution
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry
func (r *Registry) Register(tool Tool) {
	def := tool.Definition()
	if _, ok := r.tools[def.Name]; !ok {
		r.order = append(r.order, def.Name)
	}
	r.tools[def.Name] = tool
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tool definitions in registration order
func (r *Registry) List() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.tools))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// ProviderTools returns tool definitions in the wire format the
// LLM providers expect.
func (r *Registry) ProviderTools() []llm.Tool {
	result := make([]llm.Tool, 0, len(r.tools))
	for _, name := range r.order {
		def := r.tools[name].Definition()
		result = append(result, llm.Tool{
			Type: "function",
			Function: llm.Function{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  jsonSchemaToMap(def.Parameters),
			},
		})
	}
	return result
}

// jsonSchemaToMap converts JSONSchema to map for the provider APIs.
//
// Limitations: only the JSON Schema features used by the built-in
// tools are handled. anyOf/oneOf/allOf, $ref, pattern, format and
// numeric bounds are NOT supported. Extend this function if a tool
// needs them.
func jsonSchemaToMap(schema *JSONSchema) map[string]any {
	if schema == nil {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}
	}

	result := map[string]any{
		"type": schema.Type,
	}

	if schema.Description != "" {
		result["description"] = schema.Description
	}

	if len(schema.Properties) > 0 {
		props := make(map[string]any)
		for name, prop := range schema.Properties {
			props[name] = jsonSchemaToMap(prop)
		}
		result["properties"] = props
	}

	if schema.Items != nil {
		result["items"] = jsonSchemaToMap(schema.Items)
	}

	if len(schema.Required) > 0 {
		result["required"] = schema.Required
	}

	if len(schema.Enum) > 0 {
		result["enum"] = schema.Enum
	}

	return result
}

// Execute runs a tool by name with arguments
func (r *Registry) Execute(ctx context.Context, call ToolCall) ToolResult {
	tool, ok := r.Get(call.Name)
	if !ok {
		return ToolResult{Success: false, Error: fmt.Sprintf("unknown tool: %s", call.Name)}
	}

	if err := tool.Definition().CheckArgs(call.Arguments); err != nil {
		return ToolResult{Success: false, Error: err.Error(), Retryable: true}
	}

	return tool.Execute(ctx, call.Arguments)
}

// BuildSystemPrompt generates the base system prompt for curation
// agents. Tool definitions are passed separately via the native tool
// calling API.
func (r *Registry) BuildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are an expert ontology curator and biomedical data annotator.\n\n")

	sb.WriteString("CURATION GUIDELINES:\n")
	sb.WriteString("- Ground every entity mention against the controlled vocabularies before asserting an identifier\n")
	sb.WriteString("- Never invent ontology term IDs; only report IDs returned by the search tools\n")
	sb.WriteString("- Prefer exact label matches over partial or word-level matches\n")
	sb.WriteString("- When a search returns no matches, retry with synonyms or broader/narrower phrasings\n")
	sb.WriteString("- Report the match type and confidence alongside each grounded term\n")
	sb.WriteString("- Keep unmatched mentions in your answer and say they could not be grounded\n\n")

	sb.WriteString("WORKFLOW:\n")
	sb.WriteString("1. Identify the candidate entity mentions in the input\n")
	sb.WriteString("2. Use search_ontology or ground_entities to resolve them to term IDs\n")
	sb.WriteString("3. Use web_search or fetch_page only when vocabulary lookups are not enough\n")
	sb.WriteString("4. Summarize the grounded terms with their IDs, labels and confidence\n")

	return sb.String()
}

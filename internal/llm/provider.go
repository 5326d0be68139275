// Package llm abstracts the chat-completion providers used by the curation
// agents. Providers are plain HTTP clients; tool calling uses the
// OpenAI-compatible function format throughout, translated per provider.
package llm

import "context"

// Message represents a chat message
type Message struct {
	Role       string     `json:"role"` // "user", "assistant", "system", "tool"
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`         // tool name for tool result messages
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // set on assistant messages
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on tool result messages
}

// Provider is the interface for LLM backends
type Provider interface {
	// Generate produces a response given messages
	Generate(ctx context.Context, messages []Message) (string, error)
}

// ToolProvider is implemented by providers that support native tool calling
type ToolProvider interface {
	Provider

	// GenerateWithTools sends a request with tool definitions and returns
	// the model's text plus any requested tool calls
	GenerateWithTools(ctx context.Context, messages []Message, tools []Tool) (*ToolCallResponse, error)
}

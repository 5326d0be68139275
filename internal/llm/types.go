package llm

// OpenAI-compatible tool calling types. These are the lingua franca for all
// providers; the Anthropic client translates to and from its own block format.

// Tool represents a tool definition in OpenAI function format
type Tool struct {
	Type     string   `json:"type"` // "function"
	Function Function `json:"function"`
}

// Function represents a function definition
type Function struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// ToolCall represents a tool call requested by the model
type ToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"` // "function"
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"` // JSON string
	} `json:"function"`
}

// ToolCallResponse contains the model's response with tool calls
type ToolCallResponse struct {
	Content   string     // Text content (may be empty if only tool calls)
	ToolCalls []ToolCall // Tool calls requested by the model
	Done      bool       // Whether the model is done (no more tool calls)
}

// wireMessage is the message format for tool calling API requests. Content is
// a pointer so assistant messages that carry only tool calls serialize as
// null content.
type wireMessage struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// toWire converts internal messages to the OpenAI wire format
func toWire(messages []Message) []wireMessage {
	result := make([]wireMessage, 0, len(messages))
	for _, msg := range messages {
		wm := wireMessage{
			Role:       msg.Role,
			Name:       msg.Name,
			ToolCalls:  msg.ToolCalls,
			ToolCallID: msg.ToolCallID,
		}
		if msg.Role == "assistant" && len(msg.ToolCalls) > 0 && msg.Content == "" {
			wm.Content = nil
		} else {
			content := msg.Content
			wm.Content = &content
		}
		result = append(result, wm)
	}
	return result
}

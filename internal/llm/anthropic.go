package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Anthropic implements ToolProvider against the Anthropic messages API.
// Tool definitions and calls are translated between the OpenAI function
// format used internally and Anthropic's content-block format.
type Anthropic struct {
	APIKey  string
	Model   string
	BaseURL string
	client  *http.Client
}

// NewAnthropic creates a new Anthropic provider
func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://api.anthropic.com/v1",
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

type anthropicTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type anthropicContentBlock struct {
	Type string `json:"type"` // "text", "tool_use", "tool_result"

	// text blocks
	Text string `json:"text,omitempty"`

	// tool_use blocks
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result blocks
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"` // "user" or "assistant"
	Content []anthropicContentBlock `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	Tools     []anthropicTool    `json:"tools,omitempty"`
}

type anthropicResponse struct {
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// convertMessages translates internal messages to Anthropic's format. The
// system prompt is pulled out of the message list; tool results become
// tool_result blocks inside user messages.
func convertMessages(messages []Message) (system string, out []anthropicMessage) {
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = msg.Content
		case "assistant":
			blocks := []anthropicContentBlock{}
			if msg.Content != "" {
				blocks = append(blocks, anthropicContentBlock{Type: "text", Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				blocks = append(blocks, anthropicContentBlock{
					Type:  "tool_use",
					ID:    tc.ID,
					Name:  tc.Function.Name,
					Input: json.RawMessage(emptyToObject(tc.Function.Arguments)),
				})
			}
			out = append(out, anthropicMessage{Role: "assistant", Content: blocks})
		case "tool":
			out = append(out, anthropicMessage{Role: "user", Content: []anthropicContentBlock{{
				Type:      "tool_result",
				ToolUseID: msg.ToolCallID,
				Content:   msg.Content,
			}}})
		default:
			out = append(out, anthropicMessage{Role: "user", Content: []anthropicContentBlock{{
				Type: "text",
				Text: msg.Content,
			}}})
		}
	}
	return system, out
}

func emptyToObject(args string) string {
	if args == "" {
		return "{}"
	}
	return args
}

func convertTools(tools []Tool) []anthropicTool {
	out := make([]anthropicTool, 0, len(tools))
	for _, t := range tools {
		out = append(out, anthropicTool{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			InputSchema: t.Function.Parameters,
		})
	}
	return out
}

func (a *Anthropic) post(ctx context.Context, reqBody anthropicRequest) (*anthropicResponse, error) {
	if a.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key not configured. Use 'ontoground config set anthropic <key>' or set ANTHROPIC_API_KEY")
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.BaseURL+"/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("Anthropic API error: %s", parsed.Error.Message)
	}

	return &parsed, nil
}

// Generate calls the Anthropic API and returns the response text
func (a *Anthropic) Generate(ctx context.Context, messages []Message) (string, error) {
	system, converted := convertMessages(messages)
	resp, err := a.post(ctx, anthropicRequest{
		Model:     a.Model,
		MaxTokens: 4096,
		System:    system,
		Messages:  converted,
	})
	if err != nil {
		return "", err
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}

// GenerateWithTools calls the Anthropic API with tool definitions
func (a *Anthropic) GenerateWithTools(ctx context.Context, messages []Message, tools []Tool) (*ToolCallResponse, error) {
	system, converted := convertMessages(messages)
	resp, err := a.post(ctx, anthropicRequest{
		Model:     a.Model,
		MaxTokens: 4096,
		System:    system,
		Messages:  converted,
		Tools:     convertTools(tools),
	})
	if err != nil {
		return nil, err
	}

	result := &ToolCallResponse{}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			result.Content += block.Text
		case "tool_use":
			tc := ToolCall{ID: block.ID, Type: "function"}
			tc.Function.Name = block.Name
			tc.Function.Arguments = string(block.Input)
			result.ToolCalls = append(result.ToolCalls, tc)
		}
	}
	result.Done = len(result.ToolCalls) == 0
	return result, nil
}

// ModelName returns the model being used
func (a *Anthropic) ModelName() string {
	return a.Model
}

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

// OpenAI implements ToolProvider against the OpenAI chat completions API
type OpenAI struct {
	APIKey  string
	Model   string
	BaseURL string
	client  *http.Client
}

// NewOpenAI creates a new OpenAI provider
func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://api.openai.com/v1",
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

type openAIRequest struct {
	Model      string        `json:"model"`
	Messages   []wireMessage `json:"messages"`
	Tools      []Tool        `json:"tools,omitempty"`
	ToolChoice string        `json:"tool_choice,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Role      string     `json:"role"`
			Content   string     `json:"content"`
			ToolCalls []ToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *openAIError `json:"error,omitempty"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

func (o *OpenAI) post(ctx context.Context, reqBody openAIRequest) (*openAIResponse, error) {
	if o.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured. Use 'ontoground config set openai <key>' or set OPENAI_API_KEY")
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("OpenAI API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned (status %d)", resp.StatusCode)
	}

	return &parsed, nil
}

// Generate calls the OpenAI API and returns the response text
func (o *OpenAI) Generate(ctx context.Context, messages []Message) (string, error) {
	resp, err := o.post(ctx, openAIRequest{
		Model:    o.Model,
		Messages: toWire(messages),
	})
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateWithTools calls the OpenAI API with tool definitions
func (o *OpenAI) GenerateWithTools(ctx context.Context, messages []Message, tools []Tool) (*ToolCallResponse, error) {
	resp, err := o.post(ctx, openAIRequest{
		Model:      o.Model,
		Messages:   toWire(messages),
		Tools:      tools,
		ToolChoice: "auto",
	})
	if err != nil {
		return nil, err
	}

	choice := resp.Choices[0]
	return &ToolCallResponse{
		Content:   choice.Message.Content,
		ToolCalls: choice.Message.ToolCalls,
		Done:      len(choice.Message.ToolCalls) == 0,
	}, nil
}

// ModelName returns the model being used
func (o *OpenAI) ModelName() string {
	return o.Model
}

package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const maxSearchBody = 64 * 1024

// WebSearchTool queries a web search endpoint and returns the raw
// response text for the model to read. Used as a fallback when
// vocabulary lookups come up empty.
type WebSearchTool struct {
	def      ToolDefinition
	endpoint string
	client   *http.Client
}

// NewWebSearchTool creates a new web search tool. The endpoint must
// accept the query in a "q" parameter and respond with text.
func NewWebSearchTool(endpoint string) *WebSearchTool {
	return &WebSearchTool{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		def: ToolDefinition{
			Name:        "web_search",
			Description: "Search the web and return the result text. Use only when ontology searches are not enough",
			Parameters: &JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"query": {
						Type:        "string",
						Description: "The search query",
					},
				},
				Required: []string{"query"},
			},
		},
	}
}

// Definition returns the tool's schema
func (t *WebSearchTool) Definition() ToolDefinition {
	return t.def
}

// Execute performs the search request
func (t *WebSearchTool) Execute(ctx context.Context, args map[string]any) ToolResult {
	query, _ := args["query"].(string)
	if query == "" {
		return ToolResult{Success: false, Error: "query must not be empty", Retryable: true}
	}
	if t.endpoint == "" {
		return ToolResult{Success: false, Error: "no web search endpoint configured (set web_search_url)"}
	}

	u, err := url.Parse(t.endpoint)
	if err != nil {
		return ToolResult{Success: false, Error: fmt.Sprintf("invalid search endpoint: %v", err)}
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return ToolResult{Success: false, Error: err.Error()}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return ToolResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchBody))
	if err != nil {
		return ToolResult{Success: false, Error: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return ToolResult{Success: false, Error: fmt.Sprintf("search returned status %d", resp.StatusCode)}
	}

	if len(body) == 0 {
		return ToolResult{Success: true, Output: "(no results)"}
	}

	return ToolResult{Success: true, Output: string(body)}
}

package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxPageBody = 256 * 1024

// FetchPageTool retrieves the contents of a web page so the model can
// read documentation or ontology browser pages directly
type FetchPageTool struct {
	def    ToolDefinition
	client *http.Client
}

// NewFetchPageTool creates a new page fetch tool
func NewFetchPageTool() *FetchPageTool {
	return &FetchPageTool{
		client: &http.Client{Timeout: 30 * time.Second},
		def: ToolDefinition{
			Name:        "fetch_page",
			Description: "Fetch a web page by URL and return its contents as text",
			Parameters: &JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"url": {
						Type:        "string",
						Description: "The URL to fetch (http or https)",
					},
				},
				Required: []string{"url"},
			},
		},
	}
}

// Definition returns the tool's schema
func (t *FetchPageTool) Definition() ToolDefinition {
	return t.def
}

// Execute fetches the page
func (t *FetchPageTool) Execute(ctx context.Context, args map[string]any) ToolResult {
	rawURL, _ := args["url"].(string)

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return ToolResult{Success: false, Error: "url must start with http:// or https://", Retryable: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ToolResult{Success: false, Error: err.Error(), Retryable: true}
	}
	req.Header.Set("Accept", "text/html, application/json, text/plain")

	resp, err := t.client.Do(req)
	if err != nil {
		return ToolResult{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ToolResult{Success: false, Error: fmt.Sprintf("fetch returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBody))
	if err != nil {
		return ToolResult{Success: false, Error: err.Error()}
	}

	out := string(body)
	if len(body) == maxPageBody {
		out += "\n\n[truncated]"
	}

	return ToolResult{Success: true, Output: out}
}

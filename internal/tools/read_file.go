package tools

import (
	"context"
	"fmt"
	"os"
)

const maxFileSize = 512 * 1024

// ReadFileTool reads the contents of a local file, used for grounding
// entity mentions found in documents on disk
type ReadFileTool struct {
	def ToolDefinition
}

// NewReadFileTool creates a new read file tool
func NewReadFileTool() *ReadFileTool {
	return &ReadFileTool{
		def: ToolDefinition{
			Name:        "read_file",
			Description: "Read the contents of a file at the specified path",
			Parameters: &JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"path": {
						Type:        "string",
						Description: "The path to the file to read",
					},
				},
				Required: []string{"path"},
			},
		},
	}
}

// Definition returns the tool's schema
func (t *ReadFileTool) Definition() ToolDefinition {
	return t.def
}

// Execute reads the file and returns its contents
func (t *ReadFileTool) Execute(ctx context.Context, args map[string]any) ToolResult {
	path, _ := args["path"].(string)

	info, err := os.Stat(path)
	if err != nil {
		return ToolResult{Success: false, Error: err.Error(), Retryable: true}
	}
	if info.Size() > maxFileSize {
		return ToolResult{Success: false, Error: fmt.Sprintf("file too large (%d bytes)", info.Size())}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return ToolResult{Success: false, Error: err.Error()}
	}

	return ToolResult{Success: true, Output: string(content)}
}

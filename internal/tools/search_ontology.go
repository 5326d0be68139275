package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mireles/ontoground/internal/grounding"
)

// SearchOntologyTool resolves a free-text query against a single
// controlled vocabulary
type SearchOntologyTool struct {
	def      ToolDefinition
	searcher *grounding.Searcher
}

// NewSearchOntologyTool creates a new ontology search tool
func NewSearchOntologyTool(searcher *grounding.Searcher) *SearchOntologyTool {
	return &SearchOntologyTool{
		searcher: searcher,
		def: ToolDefinition{
			Name:        "search_ontology",
			Description: "Search a controlled vocabulary for terms matching a query and return ranked candidates with match type and confidence",
			Parameters: &JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"vocabulary": {
						Type:        "string",
						Description: "Vocabulary handle, e.g. 'mondo', 'hp' or 'ols:go'",
					},
					"query": {
						Type:        "string",
						Description: "The term or phrase to search for",
					},
					"limit": {
						Type:        "integer",
						Description: "Maximum number of results to return (optional)",
					},
				},
				Required: []string{"vocabulary", "query"},
			},
		},
	}
}

// Definition returns the tool's schema
func (t *SearchOntologyTool) Definition() ToolDefinition {
	return t.def
}

// Execute runs the search and returns the results as JSON
func (t *SearchOntologyTool) Execute(ctx context.Context, args map[string]any) ToolResult {
	vocabulary, _ := args["vocabulary"].(string)
	query, _ := args["query"].(string)

	limit := 0
	if v, ok := args["limit"].(float64); ok {
		limit = int(v)
	}

	results, err := t.searcher.Search(ctx, vocabulary, query, limit)
	if err != nil {
		// Argument problems the model can correct; backend failures it cannot.
		retryable := errors.Is(err, grounding.ErrEmptyQuery) ||
			errors.Is(err, grounding.ErrInvalidVocabularyID)
		return ToolResult{Success: false, Error: err.Error(), Retryable: retryable}
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return ToolResult{Success: false, Error: fmt.Sprintf("encoding results: %v", err)}
	}

	return ToolResult{Success: true, Output: string(out)}
}

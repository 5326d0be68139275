package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mireles/ontoground/internal/grounding"
)

// GroundEntitiesTool grounds a batch of entity mentions against every
// configured vocabulary and reports matched and unmatched mentions
type GroundEntitiesTool struct {
	def          ToolDefinition
	searcher     *grounding.Searcher
	vocabularies map[string]string
}

// NewGroundEntitiesTool creates a new batch grounding tool. The
// vocabularies map pairs an entity type with the vocabulary handle to
// consult for it, e.g. {"Disease": "mondo", "Phenotype": "hp"}.
func NewGroundEntitiesTool(searcher *grounding.Searcher, vocabularies map[string]string) *GroundEntitiesTool {
	return &GroundEntitiesTool{
		searcher:     searcher,
		vocabularies: vocabularies,
		def: ToolDefinition{
			Name:        "ground_entities",
			Description: "Ground a list of entity mentions against the configured vocabularies and return matched terms with IDs, plus the mentions that could not be grounded",
			Parameters: &JSONSchema{
				Type: "object",
				Properties: map[string]*JSONSchema{
					"mentions": {
						Type:        "array",
						Description: "The entity mentions to ground",
						Items: &JSONSchema{
							Type: "object",
							Properties: map[string]*JSONSchema{
								"text": {
									Type:        "string",
									Description: "The mention text as it appears in the source",
								},
								"type_hint": {
									Type:        "string",
									Description: "Suspected entity type (optional)",
								},
								"context": {
									Type:        "string",
									Description: "Surrounding text for disambiguation (optional)",
								},
							},
							Required: []string{"text"},
						},
					},
				},
				Required: []string{"mentions"},
			},
		},
	}
}

// Definition returns the tool's schema
func (t *GroundEntitiesTool) Definition() ToolDefinition {
	return t.def
}

// Execute grounds the mentions and returns the outcome as JSON
func (t *GroundEntitiesTool) Execute(ctx context.Context, args map[string]any) ToolResult {
	raw, ok := args["mentions"].([]any)
	if !ok {
		return ToolResult{Success: false, Error: "mentions must be an array of objects", Retryable: true}
	}
	if len(raw) == 0 {
		return ToolResult{Success: false, Error: "mentions must not be empty", Retryable: true}
	}

	mentions := make([]grounding.Mention, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return ToolResult{Success: false, Error: fmt.Sprintf("mention %d is not an object", i), Retryable: true}
		}
		text, _ := obj["text"].(string)
		if text == "" {
			return ToolResult{Success: false, Error: fmt.Sprintf("mention %d has no text", i), Retryable: true}
		}
		typeHint, _ := obj["type_hint"].(string)
		ctxText, _ := obj["context"].(string)
		mentions = append(mentions, grounding.Mention{Text: text, TypeHint: typeHint, Context: ctxText})
	}

	outcome, err := t.searcher.BatchGround(ctx, mentions, t.vocabularies)
	if err != nil {
		return ToolResult{Success: false, Error: err.Error()}
	}

	out, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return ToolResult{Success: false, Error: fmt.Sprintf("encoding outcome: %v", err)}
	}

	return ToolResult{Success: true, Output: string(out)}
}

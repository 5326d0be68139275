package tools

import (
	"fmt"
	"math"
)

// JSONSchema represents OpenAI-style function parameters
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
}

// ToolDefinition is the structured tool definition (like OpenAI)
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  *JSONSchema `json:"parameters"`
}

// CheckArgs verifies a call's arguments against the parameter schema:
// required fields must be present and values must match their declared
// primitive type. JSON numbers decode as float64, so "integer"
// additionally requires a whole value.
func (d ToolDefinition) CheckArgs(args map[string]any) error {
	if d.Parameters == nil {
		return nil
	}
	for _, name := range d.Parameters.Required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("missing required argument: %s", name)
		}
	}
	for name, value := range args {
		prop, ok := d.Parameters.Properties[name]
		if !ok || value == nil {
			continue
		}
		if err := checkArgType(name, prop.Type, value); err != nil {
			return err
		}
	}
	return nil
}

func checkArgType(name, schemaType string, value any) error {
	switch schemaType {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("argument %q must be a string", name)
		}
	case "integer":
		f, ok := value.(float64)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("argument %q must be an integer", name)
		}
	case "number":
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("argument %q must be a number", name)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("argument %q must be a boolean", name)
		}
	case "array":
		if _, ok := value.([]any); !ok {
			return fmt.Errorf("argument %q must be an array", name)
		}
	}
	return nil
}

// ToolCall represents a parsed tool invocation
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolResult represents the output of a tool execution.
// Retryable marks failures the model can fix by adjusting its
// arguments (empty query, malformed vocabulary handle). The executor
// feeds the error back and lets the model try again instead of
// aborting the run.
type ToolResult struct {
	Success   bool   `json:"success"`
	Output    string `json:"output"`
	Error     string `json:"error,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

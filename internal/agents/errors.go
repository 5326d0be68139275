package agents

import "errors"

var (
	// ErrMissingName is returned when an agent definition has no name
	ErrMissingName = errors.New("agent definition missing required 'name' field")

	// ErrMissingSystemPrompt is returned when an agent has no system prompt
	ErrMissingSystemPrompt = errors.New("agent definition missing system prompt (markdown body)")

	// ErrAgentNotFound is returned when an agent is not in the registry
	ErrAgentNotFound = errors.New("agent not found")

	// ErrInvalidFrontmatter is returned when YAML frontmatter parsing fails
	ErrInvalidFrontmatter = errors.New("invalid YAML frontmatter")

	// ErrNoFrontmatter is returned when a markdown file has no frontmatter
	ErrNoFrontmatter = errors.New("markdown file missing YAML frontmatter")

	// ErrReservedName is returned when an agent uses a reserved command name
	ErrReservedName = errors.New("agent name conflicts with built-in command")

	// ErrInvalidVocabulary is returned when a frontmatter vocabulary
	// handle is empty or contains whitespace
	ErrInvalidVocabulary = errors.New("invalid vocabulary handle in frontmatter")
)

// ReservedNames contains names that cannot be used for custom agents
// because they conflict with built-in subcommands
var ReservedNames = map[string]bool{
	"help":     true,
	"list":     true,
	"config":   true,
	"search":   true,
	"ground":   true,
	"index":    true,
	"serve":    true,
	"agent":    true,
	"pipeline": true,
}

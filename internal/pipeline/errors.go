package pipeline

import "errors"

var (
	// ErrMissingName indicates the pipeline definition has no name
	ErrMissingName = errors.New("pipeline must have a name field")

	// ErrNoSteps indicates the pipeline defines no steps
	ErrNoSteps = errors.New("pipeline must define at least one step")

	// ErrInvalidStep indicates a step is missing its name or agent
	ErrInvalidStep = errors.New("pipeline steps must have a name and an agent")

	// ErrDuplicateStep indicates two steps share a name
	ErrDuplicateStep = errors.New("pipeline step names must be unique")

	// ErrPipelineNotFound indicates the requested pipeline doesn't exist
	ErrPipelineNotFound = errors.New("pipeline not found")

	// ErrAgentNotFound indicates a step references an unknown agent
	ErrAgentNotFound = errors.New("pipeline step references unknown agent")

	// ErrAborted indicates the pipeline was cancelled mid-run
	ErrAborted = errors.New("pipeline aborted")
)

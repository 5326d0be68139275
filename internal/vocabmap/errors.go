package vocabmap

import "errors"

var (
	// ErrMissingName indicates the map definition has no name field
	ErrMissingName = errors.New("vocabulary map must have a name field")

	// ErrNoEntities indicates the map has no entity entries
	ErrNoEntities = errors.New("vocabulary map must define at least one entity type")

	// ErrInvalidEntry indicates an entity type or vocabulary handle is empty
	ErrInvalidEntry = errors.New("vocabulary map entries must have non-empty type and vocabulary")

	// ErrMapNotFound indicates the requested map doesn't exist
	ErrMapNotFound = errors.New("vocabulary map not found")
)

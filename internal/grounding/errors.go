package grounding

import "errors"

var (
	// ErrInvalidVocabularyID indicates the vocabulary identifier failed
	// syntactic validation (empty or contains whitespace). The caller should
	// correct the identifier and retry.
	ErrInvalidVocabularyID = errors.New("invalid vocabulary id: must be non-empty without whitespace")

	// ErrEmptyQuery indicates the query was empty or whitespace-only.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrBackend wraps backend failures the grounding component does not
	// specifically recognize. It is surfaced to the caller and not retried.
	ErrBackend = errors.New("grounding backend error")
)

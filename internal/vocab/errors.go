// Package vocab provides term-search backends for named vocabularies and a
// registry that caches one backend per vocabulary identifier.
package vocab

import "errors"

var (
	// ErrUnknownScheme indicates the vocabulary handle uses a scheme no
	// backend implements (e.g. "foo:mondo").
	ErrUnknownScheme = errors.New("unknown vocabulary handle scheme")

	// ErrVocabularyNotFound indicates the vocabulary is not in the configured
	// allowlist or has no local index.
	ErrVocabularyNotFound = errors.New("vocabulary not found")

	// ErrUnreachable indicates the backend endpoint could not be reached.
	ErrUnreachable = errors.New("vocabulary backend unreachable")
)

// Tolerable reports whether err belongs to one of the recognized backend
// error classes that grounding converts into an empty result list with a
// warning instead of a hard failure.
func Tolerable(err error) bool {
	return errors.Is(err, ErrUnknownScheme) ||
		errors.Is(err, ErrVocabularyNotFound) ||
		errors.Is(err, ErrUnreachable)
}

// Package grounding maps free-text entity mentions to controlled-vocabulary
// terms. It ranks candidates returned by a term-search backend with simple
// lexical heuristics; the backend's own relevance order is authoritative and
// is never reordered here.
package grounding

import (
	"context"
	"log/slog"
)

// Candidate is a single (identifier, label) pair returned by a backend for a
// query. Identifiers are opaque strings scoped to their vocabulary. Duplicate
// identifiers with different labels (synonyms) may appear.
type Candidate struct {
	ID    string
	Label string
}

// Backend performs the actual term lookup against a named vocabulary. It is
// treated as an opaque oracle: it may apply its own fuzzy or synonym-aware
// matching, and the order of the returned candidates is its relevance order.
type Backend interface {
	Find(ctx context.Context, vocabulary, query string) ([]Candidate, error)
}

// TolerableBackend is optionally implemented by backends whose errors can be
// classified. Errors for which Tolerable reports true are converted by the
// searcher into an empty result list with a logged warning instead of being
// surfaced to the caller.
type TolerableBackend interface {
	Backend
	Tolerable(err error) bool
}

// Searcher is the grounding search component. Construct with NewSearcher;
// the zero value is not usable.
type Searcher struct {
	backend      Backend
	confidences  Confidences
	defaultLimit int
	logger       *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithConfidences overrides the default confidence constants.
func WithConfidences(c Confidences) Option {
	return func(s *Searcher) { s.confidences = c }
}

// WithDefaultLimit sets the result cap applied when a caller passes limit <= 0.
func WithDefaultLimit(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// WithLogger sets the logger used for tolerated backend failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSearcher creates a grounding searcher over the given backend.
func NewSearcher(backend Backend, opts ...Option) *Searcher {
	s := &Searcher{
		backend:      backend,
		confidences:  DefaultConfidences(),
		defaultLimit: 10,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

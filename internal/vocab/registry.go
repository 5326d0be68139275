package vocab

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mireles/ontoground/internal/grounding"
)

// finder is the per-vocabulary backend implementation behind the registry.
type finder interface {
	find(ctx context.Context, vocabulary, query string) ([]grounding.Candidate, error)
}

// Options configures a Registry.
type Options struct {
	// DataDir is the directory holding local SQLite term indexes.
	DataDir string

	// OLSBaseURL is the base URL of an OLS-style search API, used for
	// vocabularies with an "ols:" handle.
	OLSBaseURL string

	// Allow restricts which vocabulary identifiers may be searched. Empty
	// means any vocabulary is allowed.
	Allow []string

	// Handles maps a vocabulary identifier to an explicit handle such as
	// "obo:mondo" or "ols:mondo". Vocabularies without an entry default to
	// the local "obo:" scheme.
	Handles map[string]string
}

// Registry resolves vocabulary identifiers to term-search backends and caches
// one backend per identifier for the life of the process. It implements
// grounding.Backend; pass it to grounding.NewSearcher rather than reaching
// for a package-level cache.
type Registry struct {
	opts Options

	mu      sync.Mutex
	clients map[string]finder
}

// NewRegistry creates a backend registry.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:    opts,
		clients: make(map[string]finder),
	}
}

// Find searches the vocabulary for the query, creating and caching the
// backend adapter on first use.
func (r *Registry) Find(ctx context.Context, vocabulary, query string) ([]grounding.Candidate, error) {
	vocabulary = strings.ToLower(vocabulary)

	// The allowlist matches base names, so "ols:mondo" passes when
	// "mondo" is allowed.
	base := vocabulary
	if i := strings.LastIndex(base, ":"); i >= 0 {
		base = base[i+1:]
	}
	if len(r.opts.Allow) > 0 && !r.allowed(base) {
		return nil, fmt.Errorf("%w: %q not in allowed list: %s",
			ErrVocabularyNotFound, vocabulary, strings.Join(r.opts.Allow, ", "))
	}

	client, err := r.client(vocabulary)
	if err != nil {
		return nil, err
	}
	return client.find(ctx, vocabulary, query)
}

// Tolerable reports whether err is one of the recognized backend error
// classes. This satisfies grounding.TolerableBackend.
func (r *Registry) Tolerable(err error) bool {
	return Tolerable(err)
}

func (r *Registry) allowed(vocabulary string) bool {
	for _, v := range r.opts.Allow {
		if strings.EqualFold(v, vocabulary) {
			return true
		}
	}
	return false
}

// client returns the cached backend for the vocabulary, creating it if
// needed. Creation is guarded by the registry lock; backends themselves are
// safe for concurrent use.
func (r *Registry) client(vocabulary string) (finder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[vocabulary]; ok {
		return c, nil
	}

	handle := r.opts.Handles[vocabulary]
	if handle == "" {
		if strings.Contains(vocabulary, ":") {
			// An identifier with a scheme is its own handle, e.g. "ols:mondo".
			handle = vocabulary
		} else {
			handle = "obo:" + vocabulary
		}
	}

	scheme, rest, ok := strings.Cut(handle, ":")
	if !ok {
		return nil, fmt.Errorf("%w: handle %q has no scheme", ErrUnknownScheme, handle)
	}

	var c finder
	switch scheme {
	case "obo", "sqlite":
		c = newSQLiteBackend(r.opts.DataDir, rest)
	case "ols":
		c = newOLSBackend(r.opts.OLSBaseURL, rest)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	r.clients[vocabulary] = c
	return c, nil
}

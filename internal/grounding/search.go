package grounding

import (
	"context"
	"fmt"
	"strings"
)

// SentinelID is the identifier of the result returned when the backend finds
// no matches. Callers that inspect results[0] can treat "no results"
// uniformly as a one-element list instead of branching on emptiness.
const SentinelID = "no_match"

// Result is a candidate match annotated with a lexical classification and a
// heuristic confidence score. It is computed at call time and never persisted.
type Result struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	MatchType  MatchType `json:"match_type"`
	Confidence float64   `json:"confidence"`
	Note       string    `json:"note,omitempty"`
	Vocabulary string    `json:"vocabulary"`
}

// IsSentinel reports whether the result is the no-match sentinel.
func (r Result) IsSentinel() bool {
	return r.ID == SentinelID
}

// Search finds vocabulary terms matching the query and classifies each one.
//
// The vocabulary must be a non-empty identifier without whitespace and the
// query must be non-blank; both are validated before any backend call. A
// limit <= 0 falls back to the searcher's default cap. Results keep the
// backend's relevance order truncated to the limit; classification never
// reorders them.
//
// If the backend returns no matches, exactly one sentinel result is returned
// (id "no_match", confidence 0). If the backend fails with a tolerated error
// class, a warning is logged and an empty list is returned with a nil error;
// any other backend failure is wrapped in ErrBackend.
func (s *Searcher) Search(ctx context.Context, vocabulary, query string, limit int) ([]Result, error) {
	if vocabulary == "" || strings.ContainsAny(vocabulary, " \t\n\r") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVocabularyID, vocabulary)
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	candidates, err := s.backend.Find(ctx, vocabulary, query)
	if err != nil {
		if tb, ok := s.backend.(TolerableBackend); ok && tb.Tolerable(err) {
			s.logger.Warn("vocabulary search failed, returning no results",
				"vocabulary", vocabulary, "query", query, "err", err)
			return []Result{}, nil
		}
		return nil, fmt.Errorf("%w: searching %s for %q: %v", ErrBackend, vocabulary, query, err)
	}

	if len(candidates) == 0 {
		return []Result{s.sentinel(vocabulary, query)}, nil
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		mt, conf := s.confidences.classify(query, c.Label)
		results = append(results, Result{
			ID:         c.ID,
			Label:      c.Label,
			MatchType:  mt,
			Confidence: conf,
			Note:       noteFor(mt),
			Vocabulary: vocabulary,
		})
	}
	return results, nil
}

func (s *Searcher) sentinel(vocabulary, query string) Result {
	return Result{
		ID:         SentinelID,
		Label:      fmt.Sprintf("No matches found for '%s'", query),
		MatchType:  MatchNone,
		Confidence: 0.0,
		Note:       fmt.Sprintf("No terms found in %s. Try synonyms or broader/narrower terms.", vocabulary),
		Vocabulary: vocabulary,
	}
}

func noteFor(mt MatchType) string {
	switch mt {
	case MatchExactLabel:
		return "Exact match to preferred term"
	case MatchPartialLabel:
		return "Partial match in term label"
	case MatchWord:
		return "Word-level match via similarity"
	case MatchSemantic:
		return "Semantic similarity match - review recommended"
	default:
		return ""
	}
}

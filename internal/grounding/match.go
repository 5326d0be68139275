package grounding

import (
	"strings"
	"unicode/utf8"
)

// MatchType classifies how a query relates to a candidate label.
type MatchType string

const (
	// MatchExactLabel means the query equals the label, case-insensitive.
	MatchExactLabel MatchType = "exact_label"

	// MatchPartialLabel means the query is a proper substring of the label.
	MatchPartialLabel MatchType = "partial_label"

	// MatchWord means at least one query token longer than 3 characters
	// appears in the label.
	MatchWord MatchType = "word_match"

	// MatchSemantic means no lexical overlap was detected; the match is
	// attributed entirely to the backend's own ranking.
	MatchSemantic MatchType = "semantic_similarity"

	// MatchNone is used only by the no-match sentinel result.
	MatchNone MatchType = "none"
)

// Confidences holds the confidence score assigned to each match type. The
// values are reporting heuristics, not calibrated probabilities, and are not
// used as a sort key.
type Confidences struct {
	Exact    float64
	Partial  float64
	Word     float64
	Semantic float64
}

// DefaultConfidences returns the standard confidence constants.
func DefaultConfidences() Confidences {
	return Confidences{
		Exact:    0.95,
		Partial:  0.85,
		Word:     0.75,
		Semantic: 0.65,
	}
}

// classify determines the match type for a query against a label. Exact match
// takes precedence over substring match, which takes precedence over
// word-token overlap. Both inputs are compared lower-cased and trimmed.
func (c Confidences) classify(query, label string) (MatchType, float64) {
	q := strings.ToLower(strings.TrimSpace(query))
	l := strings.ToLower(strings.TrimSpace(label))

	switch {
	case q == l:
		return MatchExactLabel, c.Exact
	case strings.Contains(l, q):
		return MatchPartialLabel, c.Partial
	case anyWordIn(q, l):
		return MatchWord, c.Word
	default:
		return MatchSemantic, c.Semantic
	}
}

// anyWordIn reports whether any whitespace-delimited token of the query
// longer than 3 characters appears in the label. Token length is
// counted in runes so multi-byte scripts are not over-counted.
func anyWordIn(query, label string) bool {
	for _, word := range strings.Fields(query) {
		if utf8.RuneCountInString(word) > 3 && strings.Contains(label, word) {
			return true
		}
	}
	return false
}

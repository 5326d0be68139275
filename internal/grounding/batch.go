package grounding

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Mention is a span of free text believed to reference an entity. TypeHint
// and Context are optional; they are carried through to the outcome but the
// hint does not restrict which vocabularies are consulted.
type Mention struct {
	Text     string `json:"text"`
	TypeHint string `json:"type_hint,omitempty"`
	Context  string `json:"context,omitempty"`
}

// Match records a successful grounding of one mention in one vocabulary.
type Match struct {
	Mention    Mention   `json:"mention"`
	EntityType string    `json:"entity_type"`
	Vocabulary string    `json:"vocabulary"`
	TermID     string    `json:"term_id"`
	Label      string    `json:"label"`
	MatchType  MatchType `json:"match_type"`
	Confidence float64   `json:"confidence"`
}

// Outcome partitions a batch of mentions into grounded and unmatched, and
// records which vocabularies were consulted.
type Outcome struct {
	Matched   []Match   `json:"matched"`
	Unmatched []Mention `json:"unmatched"`
	Consulted []string  `json:"consulted"`

	// Grounded counts input mentions with at least one match. Counted
	// per input position, so repeated mention text stays distinct.
	Grounded int `json:"grounded"`
}

// Summary returns a human-readable listing of successes and failures in
// mention input order.
func (o *Outcome) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grounded %d mention(s), %d unmatched. Vocabularies consulted: %s\n",
		o.Grounded, len(o.Unmatched), strings.Join(o.Consulted, ", "))
	for _, m := range o.Matched {
		fmt.Fprintf(&sb, "  %q -> %s (%s) [%s, %s, confidence %.2f]\n",
			m.Mention.Text, m.TermID, m.Label, m.EntityType, m.Vocabulary, m.Confidence)
	}
	for _, m := range o.Unmatched {
		fmt.Fprintf(&sb, "  %q -> no match in any vocabulary\n", m.Text)
	}
	return sb.String()
}

// BatchGround grounds each mention against every vocabulary in the map, not
// just the one matching its type hint. The first non-empty, non-sentinel
// result per (mention, vocabulary) pair is retained as a match; a mention
// with zero matches across all vocabularies is recorded as unmatched.
//
// Matches are not deduplicated across vocabularies: if a mention matches in
// two vocabularies, both matches are kept and the caller picks the best one.
// Vocabularies are consulted in sorted entity-type order so the outcome is
// deterministic. Validation errors and unrecognized backend failures abort
// the batch.
func (s *Searcher) BatchGround(ctx context.Context, mentions []Mention, vocabularyMap map[string]string) (*Outcome, error) {
	entityTypes := make([]string, 0, len(vocabularyMap))
	for et := range vocabularyMap {
		entityTypes = append(entityTypes, et)
	}
	sort.Strings(entityTypes)

	outcome := &Outcome{
		Matched:   []Match{},
		Unmatched: []Mention{},
	}
	consulted := make(map[string]bool)

	for _, mention := range mentions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		grounded := false
		for _, entityType := range entityTypes {
			vocabulary := vocabularyMap[entityType]
			consulted[vocabulary] = true

			results, err := s.Search(ctx, vocabulary, mention.Text, 0)
			if err != nil {
				return nil, err
			}
			if len(results) == 0 || results[0].IsSentinel() {
				continue
			}

			best := results[0]
			outcome.Matched = append(outcome.Matched, Match{
				Mention:    mention,
				EntityType: entityType,
				Vocabulary: vocabulary,
				TermID:     best.ID,
				Label:      best.Label,
				MatchType:  best.MatchType,
				Confidence: best.Confidence,
			})
			grounded = true
		}

		if grounded {
			outcome.Grounded++
		} else {
			outcome.Unmatched = append(outcome.Unmatched, mention)
		}
	}

	outcome.Consulted = make([]string, 0, len(consulted))
	for v := range consulted {
		outcome.Consulted = append(outcome.Consulted, v)
	}
	sort.Strings(outcome.Consulted)

	return outcome, nil
}

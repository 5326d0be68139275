package grounding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

// fakeBackend returns canned candidates per (vocabulary, query) pair and
// records calls.
type fakeBackend struct {
	responses map[string][]Candidate
	err       error
	tolerable bool
	calls     []string
}

func (f *fakeBackend) Find(ctx context.Context, vocabulary, query string) ([]Candidate, error) {
	f.calls = append(f.calls, vocabulary+"/"+query)
	if f.err != nil {
		return nil, f.err
	}
	return f.responses[vocabulary+"/"+query], nil
}

func (f *fakeBackend) Tolerable(err error) bool {
	return f.tolerable
}

func quietSearcher(b Backend, opts ...Option) *Searcher {
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return NewSearcher(b, opts...)
}

func TestClassify(t *testing.T) {
	c := DefaultConfidences()

	tests := []struct {
		name       string
		query      string
		label      string
		wantType   MatchType
		wantScore  float64
	}{
		{
			name:      "exact match case-insensitive",
			query:     "Huntington disease",
			label:     "huntington disease",
			wantType:  MatchExactLabel,
			wantScore: 0.95,
		},
		{
			name:      "exact takes precedence over substring",
			query:     "cleft palate",
			label:     "Cleft palate",
			wantType:  MatchExactLabel,
			wantScore: 0.95,
		},
		{
			name:      "proper substring",
			query:     "palate",
			label:     "cleft palate",
			wantType:  MatchPartialLabel,
			wantScore: 0.85,
		},
		{
			name:      "substring takes precedence over word overlap",
			query:     "heart defect",
			label:     "congenital heart defect",
			wantType:  MatchPartialLabel,
			wantScore: 0.85,
		},
		{
			name:      "word match on long token",
			query:     "eye abnormality",
			label:     "Abnormality of the eye",
			wantType:  MatchWord,
			wantScore: 0.75,
		},
		{
			name:      "short tokens do not count as word match",
			query:     "eye arm leg",
			label:     "limb malformation of the eye",
			wantType:  MatchSemantic,
			wantScore: 0.65,
		},
		{
			name:      "token length counted in runes not bytes",
			query:     "βτα subunit",
			label:     "hemoglobin βτα chain",
			wantType:  MatchSemantic,
			wantScore: 0.65,
		},
		{
			name:      "long multi-byte token counts as word match",
			query:     "αβγδε chain",
			label:     "protein αβγδε complex",
			wantType:  MatchWord,
			wantScore: 0.75,
		},
		{
			name:      "no overlap falls to semantic",
			query:     "hepatomegaly",
			label:     "Enlarged spleen",
			wantType:  MatchSemantic,
			wantScore: 0.65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt, score := c.classify(tt.query, tt.label)
			if mt != tt.wantType {
				t.Errorf("classify(%q, %q) type = %q, want %q", tt.query, tt.label, mt, tt.wantType)
			}
			if score != tt.wantScore {
				t.Errorf("classify(%q, %q) score = %v, want %v", tt.query, tt.label, score, tt.wantScore)
			}
		})
	}
}

func TestSearchExactMatch(t *testing.T) {
	backend := &fakeBackend{responses: map[string][]Candidate{
		"mondo/Huntington disease": {{ID: "MONDO:0007739", Label: "Huntington disease"}},
	}}
	s := quietSearcher(backend)

	results, err := s.Search(context.Background(), "mondo", "Huntington disease", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	r := results[0]
	if r.ID != "MONDO:0007739" || r.MatchType != MatchExactLabel || r.Confidence != 0.95 {
		t.Errorf("unexpected result: %+v", r)
	}
	if r.Vocabulary != "mondo" {
		t.Errorf("vocabulary = %q, want mondo", r.Vocabulary)
	}
}

func TestSearchWordMatch(t *testing.T) {
	backend := &fakeBackend{responses: map[string][]Candidate{
		"hp/eye abnormality": {{ID: "HP:0000478", Label: "Abnormality of the eye"}},
	}}
	s := quietSearcher(backend)

	results, err := s.Search(context.Background(), "hp", "eye abnormality", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].MatchType != MatchWord || results[0].Confidence != 0.75 {
		t.Errorf("result = %+v, want word_match with confidence 0.75", results[0])
	}
}

func TestSearchSentinelOnEmptyBackend(t *testing.T) {
	backend := &fakeBackend{responses: map[string][]Candidate{}}
	s := quietSearcher(backend)

	for _, limit := range []int{1, 5, 100} {
		results, err := s.Search(context.Background(), "chebi", "xyznonexistent", limit)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("limit %d: len(results) = %d, want exactly 1 sentinel", limit, len(results))
		}
		r := results[0]
		if !r.IsSentinel() || r.Confidence != 0.0 || r.MatchType != MatchNone {
			t.Errorf("limit %d: sentinel = %+v", limit, r)
		}
		if r.Label != "No matches found for 'xyznonexistent'" {
			t.Errorf("sentinel label = %q", r.Label)
		}
	}
}

func TestSearchInvalidVocabulary(t *testing.T) {
	backend := &fakeBackend{}
	s := quietSearcher(backend)

	for _, vocab := range []string{"", "mondo hp", "mondo\thp", "mondo\n"} {
		_, err := s.Search(context.Background(), vocab, "x", 5)
		if !errors.Is(err, ErrInvalidVocabularyID) {
			t.Errorf("vocab %q: error = %v, want ErrInvalidVocabularyID", vocab, err)
		}
	}
	if len(backend.calls) != 0 {
		t.Errorf("backend called %d times, want 0 (validation precedes backend call)", len(backend.calls))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	backend := &fakeBackend{}
	s := quietSearcher(backend)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := s.Search(context.Background(), "mondo", query, 5)
		if !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("query %q: error = %v, want ErrEmptyQuery", query, err)
		}
	}
	if len(backend.calls) != 0 {
		t.Errorf("backend called %d times, want 0", len(backend.calls))
	}
}

func TestSearchTruncationAndOrder(t *testing.T) {
	candidates := []Candidate{
		{ID: "GO:1", Label: "zzz unrelated"},
		{ID: "GO:2", Label: "cell cycle"},
		{ID: "GO:3", Label: "cell cycle process"},
		{ID: "GO:4", Label: "mitotic cell cycle"},
	}
	backend := &fakeBackend{responses: map[string][]Candidate{
		"go/cell cycle": candidates,
	}}
	s := quietSearcher(backend)

	for _, limit := range []int{1, 2, 3, 4, 10} {
		results, err := s.Search(context.Background(), "go", "cell cycle", limit)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		want := len(candidates)
		if limit < want {
			want = limit
		}
		if len(results) != want {
			t.Fatalf("limit %d: len(results) = %d, want %d", limit, len(results), want)
		}
		// Backend order is preserved even though the first candidate scores
		// lowest: classification is not a sort key.
		for i, r := range results {
			if r.ID != candidates[i].ID {
				t.Errorf("limit %d: results[%d].ID = %s, want %s", limit, i, r.ID, candidates[i].ID)
			}
		}
	}
}

func TestSearchIdempotent(t *testing.T) {
	backend := &fakeBackend{responses: map[string][]Candidate{
		"hp/seizure": {
			{ID: "HP:0001250", Label: "Seizure"},
			{ID: "HP:0032794", Label: "Focal seizure"},
		},
	}}
	s := quietSearcher(backend)

	first, err := s.Search(context.Background(), "hp", "seizure", 5)
	if err != nil {
		t.Fatalf("first Search() error = %v", err)
	}
	second, err := s.Search(context.Background(), "hp", "seizure", 5)
	if err != nil {
		t.Fatalf("second Search() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated search differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSearchToleratedBackendError(t *testing.T) {
	backend := &fakeBackend{err: fmt.Errorf("unknown scheme %q", "xyz:"), tolerable: true}
	s := quietSearcher(backend)

	results, err := s.Search(context.Background(), "mondo", "anything", 5)
	if err != nil {
		t.Fatalf("Search() error = %v, want nil for tolerated backend failure", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 (empty list, not sentinel)", len(results))
	}
	if results == nil {
		t.Error("results is nil, want empty non-nil slice")
	}
}

func TestSearchUnrecognizedBackendError(t *testing.T) {
	backend := &fakeBackend{err: errors.New("disk on fire"), tolerable: false}
	s := quietSearcher(backend)

	_, err := s.Search(context.Background(), "mondo", "anything", 5)
	if !errors.Is(err, ErrBackend) {
		t.Errorf("error = %v, want ErrBackend", err)
	}
}

func TestSearchCustomConfidences(t *testing.T) {
	backend := &fakeBackend{responses: map[string][]Candidate{
		"mondo/diabetes": {{ID: "MONDO:0005015", Label: "diabetes"}},
	}}
	s := quietSearcher(backend, WithConfidences(Confidences{Exact: 1.0, Partial: 0.5, Word: 0.25, Semantic: 0.1}))

	results, err := s.Search(context.Background(), "mondo", "diabetes", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].Confidence != 1.0 {
		t.Errorf("confidence = %v, want overridden 1.0", results[0].Confidence)
	}
}

func TestSearchDefaultLimit(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 30; i++ {
		candidates = append(candidates, Candidate{ID: fmt.Sprintf("HP:%07d", i), Label: fmt.Sprintf("term %d", i)})
	}
	backend := &fakeBackend{responses: map[string][]Candidate{"hp/term": candidates}}
	s := quietSearcher(backend, WithDefaultLimit(3))

	results, err := s.Search(context.Background(), "hp", "term", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 3 {
		t.Errorf("len(results) = %d, want default limit 3", len(results))
	}
}

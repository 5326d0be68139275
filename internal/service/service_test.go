package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mireles/ontoground/internal/grounding"
)

type mapBackend struct {
	candidates map[string][]grounding.Candidate
}

func (b *mapBackend) Find(ctx context.Context, vocabulary, query string) ([]grounding.Candidate, error) {
	return b.candidates[vocabulary+"/"+query], nil
}

func newTestServer(candidates map[string][]grounding.Candidate) *Server {
	searcher := grounding.NewSearcher(&mapBackend{candidates: candidates},
		grounding.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return NewServer(searcher, DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleSearch(t *testing.T) {
	server := newTestServer(map[string][]grounding.Candidate{
		"mondo/Marfan syndrome": {
			{ID: "MONDO:0007947", Label: "Marfan syndrome"},
		},
	})

	req := NewSearchRequest("mondo", "Marfan syndrome", 0)
	data, err := req.Encode()
	if err != nil {
		t.Fatal(err)
	}

	var resp SearchResponse
	if err := json.Unmarshal(server.handleSearch(context.Background(), data), &resp); err != nil {
		t.Fatalf("reply is not JSON: %v", err)
	}
	if resp.Error != "" {
		t.Fatalf("Error = %q", resp.Error)
	}
	if resp.ID != req.ID {
		t.Errorf("ID = %q, want %q", resp.ID, req.ID)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "MONDO:0007947" {
		t.Errorf("Results = %+v", resp.Results)
	}
	if resp.Results[0].MatchType != grounding.MatchExactLabel {
		t.Errorf("MatchType = %s", resp.Results[0].MatchType)
	}
}

func TestHandleSearchErrors(t *testing.T) {
	server := newTestServer(nil)

	tests := []struct {
		name    string
		payload []byte
		wantErr string
	}{
		{"malformed payload", []byte("{not json"), "invalid request payload"},
		{"empty query", mustEncodeReq(t, NewSearchRequest("mondo", "", 0)), "query"},
		{"bad vocabulary", mustEncodeReq(t, NewSearchRequest("mon do", "diabetes", 0)), "vocabulary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp SearchResponse
			if err := json.Unmarshal(server.handleSearch(context.Background(), tt.payload), &resp); err != nil {
				t.Fatalf("reply is not JSON: %v", err)
			}
			if resp.Error == "" {
				t.Fatal("expected an error in the response")
			}
			if !strings.Contains(resp.Error, tt.wantErr) {
				t.Errorf("Error = %q, want substring %q", resp.Error, tt.wantErr)
			}
		})
	}
}

func TestHandleGround(t *testing.T) {
	server := newTestServer(map[string][]grounding.Candidate{
		"hp/cleft palate": {
			{ID: "HP:0000175", Label: "Cleft palate"},
		},
	})

	req := NewGroundRequest(
		[]grounding.Mention{{Text: "cleft palate"}, {Text: "unknowable thing"}},
		map[string]string{"Phenotype": "hp"},
	)
	data, err := req.Encode()
	if err != nil {
		t.Fatal(err)
	}

	var resp GroundResponse
	if err := json.Unmarshal(server.handleGround(context.Background(), data), &resp); err != nil {
		t.Fatalf("reply is not JSON: %v", err)
	}
	if resp.Error != "" {
		t.Fatalf("Error = %q", resp.Error)
	}
	if resp.Outcome == nil {
		t.Fatal("Outcome is nil")
	}
	if len(resp.Outcome.Matched) != 1 || resp.Outcome.Matched[0].TermID != "HP:0000175" {
		t.Errorf("Matched = %+v", resp.Outcome.Matched)
	}
	if len(resp.Outcome.Unmatched) != 1 {
		t.Errorf("Unmatched = %+v", resp.Outcome.Unmatched)
	}
}

func mustEncodeReq(t *testing.T, req *SearchRequest) []byte {
	t.Helper()
	data, err := req.Encode()
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestServiceRoundTrip(t *testing.T) {
	// Skip if NATS isn't running.
	server := newTestServer(map[string][]grounding.Candidate{
		"mondo/diabetes mellitus": {
			{ID: "MONDO:0005015", Label: "diabetes mellitus"},
		},
	})
	if err := server.Connect(); err != nil {
		t.Skipf("NATS not available: %v", err)
	}
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	client := NewClient(DefaultConfig())
	if err := client.Connect(); err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer client.Close()

	results, err := client.Search(ctx, "mondo", "diabetes mellitus", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].ID != "MONDO:0005015" {
		t.Errorf("results = %+v", results)
	}

	outcome, err := client.Ground(ctx,
		[]grounding.Mention{{Text: "diabetes mellitus"}},
		map[string]string{"Disease": "mondo"})
	if err != nil {
		t.Fatalf("Ground() error = %v", err)
	}
	if len(outcome.Matched) != 1 {
		t.Errorf("outcome = %+v", outcome)
	}
}

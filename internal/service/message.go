package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mireles/ontoground/internal/grounding"
)

// Subjects the service listens on.
const (
	SubjectSearch = "ontoground.search"
	SubjectGround = "ontoground.ground"
)

// SearchRequest asks the service to resolve a query in one vocabulary.
type SearchRequest struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Vocabulary string    `json:"vocabulary"`
	Query      string    `json:"query"`
	Limit      int       `json:"limit,omitempty"`
}

// SearchResponse carries the ranked results back to the caller.
type SearchResponse struct {
	ID      string             `json:"id"`
	Results []grounding.Result `json:"results"`
	Error   string             `json:"error,omitempty"`
}

// GroundRequest asks the service to ground a batch of mentions across
// a set of vocabularies.
type GroundRequest struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Mentions     []grounding.Mention `json:"mentions"`
	Vocabularies map[string]string  `json:"vocabularies"`
}

// GroundResponse carries the batch outcome back to the caller.
type GroundResponse struct {
	ID      string             `json:"id"`
	Outcome *grounding.Outcome `json:"outcome,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// NewSearchRequest creates a search request with a generated ID and timestamp.
func NewSearchRequest(vocabulary, query string, limit int) *SearchRequest {
	return &SearchRequest{
		ID:         uuid.New().String(),
		Timestamp:  time.Now(),
		Vocabulary: vocabulary,
		Query:      query,
		Limit:      limit,
	}
}

// NewGroundRequest creates a ground request with a generated ID and timestamp.
func NewGroundRequest(mentions []grounding.Mention, vocabularies map[string]string) *GroundRequest {
	return &GroundRequest{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		Mentions:     mentions,
		Vocabularies: vocabularies,
	}
}

// Encode serializes the request to JSON.
func (r *SearchRequest) Encode() ([]byte, error) { return json.Marshal(r) }

// Encode serializes the request to JSON.
func (r *GroundRequest) Encode() ([]byte, error) { return json.Marshal(r) }

// DecodeSearchRequest deserializes a search request from JSON.
func DecodeSearchRequest(data []byte) (*SearchRequest, error) {
	var req SearchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeGroundRequest deserializes a ground request from JSON.
func DecodeGroundRequest(data []byte) (*GroundRequest, error) {
	var req GroundRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

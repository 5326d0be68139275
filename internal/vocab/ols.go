package vocab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mireles/ontoground/internal/grounding"
)

// DefaultOLSBaseURL is the public EBI Ontology Lookup Service endpoint.
const DefaultOLSBaseURL = "https://www.ebi.ac.uk/ols4"

// olsBackend searches an OLS-style HTTP API. The service applies its own
// fuzzy and synonym-aware ranking; its document order is the relevance order
// returned to callers.
type olsBackend struct {
	baseURL string
	name    string
	client  *http.Client
}

func newOLSBackend(baseURL, name string) *olsBackend {
	if baseURL == "" {
		baseURL = DefaultOLSBaseURL
	}
	return &olsBackend{
		baseURL: baseURL,
		name:    name,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type olsResponse struct {
	Response struct {
		Docs []struct {
			OboID string `json:"obo_id"`
			IRI   string `json:"iri"`
			Label string `json:"label"`
		} `json:"docs"`
	} `json:"response"`
}

func (b *olsBackend) find(ctx context.Context, vocabulary, query string) ([]grounding.Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("ontology", b.name)
	params.Set("rows", strconv.Itoa(100))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		b.baseURL+"/api/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		// DNS failures, refused connections, and timeouts are all the same
		// recognized class: the endpoint could not be reached.
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: ontology %q unknown to OLS", ErrVocabularyNotFound, b.name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OLS search returned status %d", resp.StatusCode)
	}

	var parsed olsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding OLS response: %w", err)
	}

	candidates := make([]grounding.Candidate, 0, len(parsed.Response.Docs))
	for _, doc := range parsed.Response.Docs {
		id := doc.OboID
		if id == "" {
			id = doc.IRI
		}
		if id == "" || doc.Label == "" {
			continue
		}
		candidates = append(candidates, grounding.Candidate{ID: id, Label: doc.Label})
	}
	return candidates, nil
}

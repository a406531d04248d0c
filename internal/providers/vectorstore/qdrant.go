package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/vndbot/internal/config"
	"github.com/sandevgo/vndbot/internal/core"
)

// Qdrant searches one collection over the Qdrant REST API.
type Qdrant struct {
	client     *http.Client
	baseURL    string
	collection string
}

func NewQdrant(cfg *config.QdrantConfig) *Qdrant {
	return &Qdrant{
		client:     &http.Client{Timeout: 15 * time.Second},
		baseURL:    fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		collection: cfg.Collection,
	}
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		Score   float64         `json:"score"`
		Payload core.HitPayload `json:"payload"`
	} `json:"result"`
}

// Search returns the top-limit nearest neighbors with payload attached, in
// the store's descending-score order.
func (q *Qdrant) Search(ctx context.Context, vector []float32, limit int) ([]core.SearchHit, error) {
	data, err := json.Marshal(searchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", q.baseURL, q.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("qdrant returned status %d: %s", resp.StatusCode, body)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	hits := make([]core.SearchHit, len(result.Result))
	for i, r := range result.Result {
		hits[i] = core.SearchHit{Score: r.Score, Payload: r.Payload}
	}
	return hits, nil
}

package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/vndbot/internal/config"
	"github.com/sandevgo/vndbot/internal/core"
)

// Client posts retrieval requests to the generation service.
type Client struct {
	client   *http.Client
	endpoint string
}

func NewClient(cfg *config.GeneratorConfig) *Client {
	return &Client{
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: cfg.Endpoint,
	}
}

// Generate sends the request and returns the answer text. An empty string
// with a nil error means the service replied without an answer field; the
// caller substitutes its placeholder. A non-2xx status is returned as
// *core.GenerationError.
func (c *Client) Generate(ctx context.Context, request core.RetrievalRequest) (string, error) {
	data, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &core.GenerationError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return result.Answer, nil
}

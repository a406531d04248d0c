package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/vndbot/internal/config"
	"github.com/sandevgo/vndbot/internal/core"
	"github.com/tidwall/gjson"
)

// Client talks to the messenger bot HTTP API. It holds no per-call state
// and is safe for concurrent use by the poll loop and any number of
// handler goroutines.
type Client struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewClient(cfg *config.BotConfig) *Client {
	return &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		token:   cfg.Token,
	}
}

// GetUpdates fetches up to limit events starting at offset, in arrival
// order. Transport and HTTP-level failures are reported as
// *core.ConnectivityError so the caller can tell them apart from an empty
// batch.
func (c *Client) GetUpdates(ctx context.Context, offset int64, limit int) ([]core.Event, error) {
	q := url.Values{}
	q.Set("offset", strconv.FormatInt(offset, 10))
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/messages/getUpdates/?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &core.ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.ConnectivityError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &core.ConnectivityError{Err: fmt.Errorf("http %d: %s", resp.StatusCode, body)}
	}

	var events []core.Event
	for _, upd := range gjson.GetBytes(body, "updates").Array() {
		events = append(events, ParseUpdate([]byte(upd.Raw)))
	}
	return events, nil
}

// SendText delivers one text message. A single best-effort attempt: the
// caller logs and drops on failure.
func (c *Client) SendText(ctx context.Context, chatID, text string) error {
	// Group chat identifiers look like "0/0/<uuid>" while private chats
	// resolve to the sender's login. The API takes them in different fields.
	payload := map[string]string{"text": text}
	if strings.Contains(chatID, "/") {
		payload["chat_id"] = chatID
	} else {
		payload["login"] = chatID
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages/sendText/", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendText returned status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// CheckConnection probes the API with a minimal getUpdates call. The probe
// is idempotent, so it is safe to wrap in a retrier at startup.
func (c *Client) CheckConnection(ctx context.Context) error {
	_, err := c.GetUpdates(ctx, 0, 1)
	return err
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("User-Agent", core.BotName+"/"+core.BotVersion)
}

package chatstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fitness-hub/core/internal/domain"
)

// Client posts transcripts to the chat relay.
type Client struct {
	url    string
	apiKey string
	http   *http.Client
}

// NewClient targets the relay endpoint at url. apiKey, when set, is sent as a
// bearer token. A nil httpClient uses http.DefaultClient.
func NewClient(url, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, apiKey: apiKey, http: httpClient}
}

// Stream sends messages and returns a Reader over the response body. The
// caller must Close the returned body. Error statuses map to
// domain.ErrRateLimited (429), domain.ErrPaymentRequired (402) and a generic
// error otherwise.
func (c *Client) Stream(ctx context.Context, messages []domain.Message) (*Reader, io.Closer, error) {
	body, err := json.Marshal(domain.ChatRequest{Messages: messages})
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, nil, statusError(resp)
	}
	return NewReader(resp.Body), resp.Body, nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	_ = json.Unmarshal(raw, &body)
	msg := strings.TrimSpace(body.Error)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", msg, domain.ErrRateLimited)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", msg, domain.ErrPaymentRequired)
	default:
		return fmt.Errorf("chat relay status %d: %s", resp.StatusCode, msg)
	}
}

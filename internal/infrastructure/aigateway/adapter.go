// Package aigateway streams completions from an OpenAI-compatible gateway.
// Its events already use the normalized delta shape and are relayed unchanged.
package aigateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fitness-hub/core/internal/config"
	"github.com/fitness-hub/core/internal/domain"
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type Adapter struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// New builds an adapter from cfg. A nil client means http.DefaultClient.
func New(cfg config.ProviderConfig, client *http.Client) *Adapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Adapter{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  client,
	}
}

func (a *Adapter) Configured() bool { return strings.TrimSpace(a.apiKey) != "" }

// Stream opens a streaming chat completion. 429 and 402 map to
// domain.ErrRateLimited and domain.ErrPaymentRequired; any other failure
// maps to domain.ErrProviderUnavailable.
func (a *Adapter) Stream(ctx context.Context, msgs []domain.Message) (*domain.UpstreamStream, error) {
	body, err := json.Marshal(buildRequest(a.model, msgs))
	if err != nil {
		return nil, fmt.Errorf("encode gateway request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w: %w", err, domain.ErrProviderUnavailable)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &domain.UpstreamStream{Provider: domain.ProviderFallback, Body: resp.Body}, nil
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("gateway status %d: %w", resp.StatusCode, domain.ErrRateLimited)
	case http.StatusPaymentRequired:
		return nil, fmt.Errorf("gateway status %d: %w", resp.StatusCode, domain.ErrPaymentRequired)
	default:
		return nil, fmt.Errorf("gateway status %d: %w", resp.StatusCode, domain.ErrProviderUnavailable)
	}
}

func buildRequest(model string, msgs []domain.Message) request {
	out := make([]message, 0, len(msgs)+1)
	out = append(out, message{Role: "system", Content: domain.FitBotPrompt})
	for _, m := range msgs {
		out = append(out, message{Role: string(m.Role), Content: m.Content})
	}
	return request{Model: model, Messages: out, Stream: true}
}

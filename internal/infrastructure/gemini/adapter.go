// Package gemini streams completions from the Google Generative Language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fitness-hub/core/internal/config"
	"github.com/fitness-hub/core/internal/domain"
	"google.golang.org/api/googleapi"
)

const blockMediumAndAbove = "BLOCK_MEDIUM_AND_ABOVE"

var harmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type request struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

// Adapter calls streamGenerateContent with alt=sse.
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

// Stream opens a streaming completion for msgs. Any transport failure or
// non-2xx status is wrapped with domain.ErrProviderUnavailable; a non-2xx
// status also carries the decoded *googleapi.Error.
func (a *Adapter) Stream(ctx context.Context, msgs []domain.Message) (*domain.UpstreamStream, error) {
	body, err := json.Marshal(buildRequest(msgs))
	if err != nil {
		return nil, fmt.Errorf("encode gemini request: %w", err)
	}
	q := url.Values{"alt": {"sse"}, "key": {a.apiKey}}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:streamGenerateContent?%s", a.baseURL, url.PathEscape(a.model), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which carries the key.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("gemini request: %w: %w", err, domain.ErrProviderUnavailable)
	}
	if err := googleapi.CheckResponse(resp); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("gemini: %w: %w", err, domain.ErrProviderUnavailable)
	}
	return &domain.UpstreamStream{Provider: domain.ProviderPrimary, Body: resp.Body}, nil
}

func buildRequest(msgs []domain.Message) request {
	contents := make([]content, 0, len(msgs)+2)
	contents = append(contents,
		content{Role: "user", Parts: []part{{Text: domain.FitBotPrompt}}},
		content{Role: "model", Parts: []part{{Text: domain.FitBotAcknowledgment}}},
	)
	for _, m := range msgs {
		contents = append(contents, content{Role: role(m.Role), Parts: []part{{Text: m.Content}}})
	}

	safety := make([]safetySetting, 0, len(harmCategories))
	for _, c := range harmCategories {
		safety = append(safety, safetySetting{Category: c, Threshold: blockMediumAndAbove})
	}
	return request{
		Contents: contents,
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 2048,
		},
		SafetySettings: safety,
	}
}

func role(r domain.Role) string {
	if r == domain.RoleAssistant {
		return "model"
	}
	return "user"
}

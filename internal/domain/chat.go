package domain

import "io"

// Role is the author of one transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat transcript.
type Message struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// ChatRequest is the body accepted by the chat relay.
type ChatRequest struct {
	Messages []Message `json:"messages" validate:"required,min=1,dive"`
}

// Provider identifies which upstream adapter served a request.
type Provider int

const (
	ProviderPrimary Provider = iota + 1
	ProviderFallback
)

func (p Provider) String() string {
	switch p {
	case ProviderPrimary:
		return "gemini"
	case ProviderFallback:
		return "ai-gateway"
	default:
		return "unknown"
	}
}

// UpstreamStream is an open, successful upstream response body tagged with
// the provider that produced it. The caller owns Body and must close it.
type UpstreamStream struct {
	Provider Provider
	Body     io.ReadCloser
}

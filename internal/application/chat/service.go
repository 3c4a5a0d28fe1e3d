package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fitness-hub/core/internal/domain"
	"github.com/fitness-hub/core/internal/infrastructure/gemini"
	"github.com/fitness-hub/core/internal/pkg/logger"
	"github.com/fitness-hub/core/internal/pkg/sse"
	"github.com/fitness-hub/core/internal/pkg/validate"
)

type Service interface {
	// Open picks a provider for msgs and returns its open stream. Nothing has
	// been written to the client yet, so errors can still become JSON responses.
	Open(ctx context.Context, msgs []domain.Message) (*Selection, error)
}

type streamer interface {
	Configured() bool
	Stream(ctx context.Context, msgs []domain.Message) (*domain.UpstreamStream, error)
}

// EventWriter receives normalized events. *sse.Writer implements it.
type EventWriter interface {
	WriteData(payload string) error
	WriteDelta(content string) error
	WriteDone() error
}

type service struct {
	primary  streamer
	fallback streamer
	log      *logger.Logger
}

type ServiceDeps struct {
	Primary  streamer
	Fallback streamer
	Logger   *logger.Logger
}

func NewService(deps ServiceDeps) Service {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &service{
		primary:  deps.Primary,
		fallback: deps.Fallback,
		log:      log.With("component", "chat"),
	}
}

func (s *service) Open(ctx context.Context, msgs []domain.Message) (*Selection, error) {
	if err := validate.Struct(domain.ChatRequest{Messages: msgs}); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	if configured(s.primary) {
		up, err := s.primary.Stream(ctx, msgs)
		if err == nil {
			return s.selection(up), nil
		}
		s.log.Warn("primary provider failed", "provider", domain.ProviderPrimary, "err", err)
	}

	if configured(s.fallback) {
		up, err := s.fallback.Stream(ctx, msgs)
		if err == nil {
			return s.selection(up), nil
		}
		s.log.Warn("fallback provider failed", "provider", domain.ProviderFallback, "err", err)
		if errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrPaymentRequired) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("no provider could serve the request: %w", domain.ErrNoProvider)
}

func (s *service) selection(up *domain.UpstreamStream) *Selection {
	s.log.Info("provider selected", "provider", up.Provider)
	return NewSelection(up, s.log)
}

func configured(p streamer) bool { return p != nil && p.Configured() }

// Selection is the provider chosen for one request together with its open
// upstream body.
type Selection struct {
	Provider domain.Provider
	body     io.ReadCloser
	log      *logger.Logger
}

// NewSelection wraps an open upstream stream. A nil log discards relay diagnostics.
func NewSelection(up *domain.UpstreamStream, log *logger.Logger) *Selection {
	if log == nil {
		log = logger.Nop()
	}
	return &Selection{Provider: up.Provider, body: up.Body, log: log.With("provider", up.Provider)}
}

// Close releases the upstream body. Relay closes it as well.
func (s *Selection) Close() error { return s.body.Close() }

// Relay copies upstream events to w one line at a time, normalized to the
// delta shape, and ends with a single sentinel event. Events that cannot be
// parsed are skipped. A write error means the client went away and is
// returned without writing the sentinel; so is an upstream read error.
func (s *Selection) Relay(w EventWriter) error {
	defer s.body.Close()

	lines := sse.NewLineReader(s.body)
	var relayed, skipped int
	for {
		line, err := lines.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.log.Warn("upstream stream interrupted", "relayed", relayed, "err", err)
			return fmt.Errorf("read upstream: %w", err)
		}
		payload, ok := sse.Data(line)
		if !ok {
			continue
		}

		switch s.Provider {
		case domain.ProviderPrimary:
			text, perr := gemini.ChunkText(payload)
			if perr != nil {
				skipped++
				continue
			}
			if text == "" {
				continue
			}
			err = w.WriteDelta(text)
		default:
			if strings.TrimSpace(payload) == sse.Done {
				continue
			}
			err = w.WriteData(payload)
		}
		if err != nil {
			return fmt.Errorf("write event: %w", err)
		}
		relayed++
	}

	if err := w.WriteDone(); err != nil {
		return fmt.Errorf("write sentinel: %w", err)
	}
	s.log.Debug("stream relayed", "relayed", relayed, "skipped", skipped)
	return nil
}

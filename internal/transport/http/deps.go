package http

import (
	"context"
	"io"
	"time"

	"github.com/fitness-hub/core/internal/domain"
	jwtinfra "github.com/fitness-hub/core/internal/infrastructure/jwt"
)

// OTPRepository is the minimal interface the router requires from the verification store.
type OTPRepository interface {
	Replace(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	MarkVerified(ctx context.Context, email, id string, now time.Time) error
	Invalidate(ctx context.Context, email, id string) error
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg domain.Email) error
}

// EventPublisher emits verification events.
type EventPublisher interface {
	PublishEmailVerified(ctx context.Context, evt domain.EmailVerifiedEvent) error
}

// ChatProvider is one upstream completion adapter.
type ChatProvider interface {
	Configured() bool
	Stream(ctx context.Context, msgs []domain.Message) (*domain.UpstreamStream, error)
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// ProfileRepository stores the per-user avatar URL.
type ProfileRepository interface {
	SetAvatarURL(ctx context.Context, userID, url string, now time.Time) error
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

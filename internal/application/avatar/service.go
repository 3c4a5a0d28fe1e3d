package avatar

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/fitness-hub/core/internal/domain"
	"github.com/fitness-hub/core/internal/pkg/id"
)

// MaxSize is the largest accepted avatar in bytes.
const MaxSize = 5 << 20

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"gif":  "image/gif",
}

type UploadInput struct {
	Reader   io.Reader
	Filename string
	Size     int64
	UserID   string
}

type Service interface {
	Upload(ctx context.Context, input UploadInput) (*domain.Avatar, error)
	Current(ctx context.Context, userID string) (*domain.Profile, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type profileStore interface {
	SetAvatarURL(ctx context.Context, userID, url string, now time.Time) error
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

type service struct {
	store    objectStore
	profiles profileStore
	now      func() time.Time
}

func NewService(store objectStore, profiles profileStore) Service {
	return &service{store: store, profiles: profiles, now: time.Now}
}

// Upload stores the image as the user's single avatar object, replacing any
// previous one, and returns a URL that changes on every upload.
func (s *service) Upload(ctx context.Context, input UploadInput) (*domain.Avatar, error) {
	userID := sanitizeSegment(input.UserID)
	if input.UserID == "" || userID != input.UserID {
		return nil, fmt.Errorf("invalid user id: %w", domain.ErrUnauthorized)
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(input.Filename)), ".")
	contentType, ok := contentTypes[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported image type %q: %w", ext, domain.ErrBadRequest)
	}
	if input.Size <= 0 || input.Size > MaxSize {
		return nil, fmt.Errorf("image must be between 1 byte and 5 MiB: %w", domain.ErrBadRequest)
	}

	key := fmt.Sprintf("avatars/%s/avatar.%s", userID, ext)
	// Size comes from the client; the reader is capped regardless.
	url, err := s.store.Upload(ctx, key, io.LimitReader(input.Reader, MaxSize), contentType)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	a := &domain.Avatar{
		UserID: input.UserID,
		Key:    key,
		URL:    url + "?v=" + id.New(),
	}
	if err := s.profiles.SetAvatarURL(ctx, a.UserID, a.URL, s.now()); err != nil {
		return nil, fmt.Errorf("record avatar: %w", err)
	}
	return a, nil
}

// Current returns the profile holding the user's latest avatar URL.
func (s *service) Current(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("missing user id: %w", domain.ErrUnauthorized)
	}
	return s.profiles.Get(ctx, userID)
}

// sanitizeSegment keeps only characters that are safe in an S3 key segment
// (alphanumeric, dash, underscore).
func sanitizeSegment(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

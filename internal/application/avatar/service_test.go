package avatar

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fitness-hub/core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, key, string(data), contentType)
	return args.String(0), args.Error(1)
}

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) SetAvatarURL(ctx context.Context, userID, url string, now time.Time) error {
	return m.Called(ctx, userID, url, now).Error(0)
}

func (m *mockProfiles) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func TestUpload_HappyPath(t *testing.T) {
	store := &mockStore{}
	store.On("Upload", mock.Anything, "avatars/user-1/avatar.png", "png-bytes", "image/png").
		Return("https://cdn.example.com/avatars/user-1/avatar.png", nil)
	profiles := &mockProfiles{}
	profiles.On("SetAvatarURL", mock.Anything, "user-1", mock.MatchedBy(func(url string) bool {
		return strings.HasPrefix(url, "https://cdn.example.com/avatars/user-1/avatar.png?v=")
	}), mock.Anything).Return(nil)

	a, err := NewService(store, profiles).Upload(context.Background(), UploadInput{
		Reader: strings.NewReader("png-bytes"), Filename: "Me.PNG", Size: 9, UserID: "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "avatars/user-1/avatar.png", a.Key)
	assert.True(t, strings.HasPrefix(a.URL, "https://cdn.example.com/avatars/user-1/avatar.png?v="))
	store.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestUpload_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		input UploadInput
		want  error
	}{
		{"unsupported extension", UploadInput{Filename: "cv.pdf", Size: 10, UserID: "u"}, domain.ErrBadRequest},
		{"no extension", UploadInput{Filename: "avatar", Size: 10, UserID: "u"}, domain.ErrBadRequest},
		{"too large", UploadInput{Filename: "a.jpg", Size: MaxSize + 1, UserID: "u"}, domain.ErrBadRequest},
		{"empty", UploadInput{Filename: "a.jpg", Size: 0, UserID: "u"}, domain.ErrBadRequest},
		{"missing user", UploadInput{Filename: "a.jpg", Size: 10}, domain.ErrUnauthorized},
		{"traversal user", UploadInput{Filename: "a.jpg", Size: 10, UserID: "../x"}, domain.ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockStore{}
			tc.input.Reader = strings.NewReader("x")
			_, err := NewService(store, &mockProfiles{}).Upload(context.Background(), tc.input)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpload_StoreError(t *testing.T) {
	store := &mockStore{}
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("denied"))

	_, err := NewService(store, &mockProfiles{}).Upload(context.Background(), UploadInput{
		Reader: strings.NewReader("x"), Filename: "a.gif", Size: 1, UserID: "u",
	})
	assert.ErrorContains(t, err, "upload avatar")
}

func TestUpload_ProfileError(t *testing.T) {
	store := &mockStore{}
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("s3://avatars/k", nil)
	profiles := &mockProfiles{}
	profiles.On("SetAvatarURL", mock.Anything, "u", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	_, err := NewService(store, profiles).Upload(context.Background(), UploadInput{
		Reader: strings.NewReader("x"), Filename: "a.gif", Size: 1, UserID: "u",
	})
	assert.ErrorContains(t, err, "record avatar")
}

func TestCurrent(t *testing.T) {
	profiles := &mockProfiles{}
	profiles.On("Get", mock.Anything, "u").Return(&domain.Profile{UserID: "u", AvatarURL: "https://x/a.png"}, nil)
	svc := NewService(&mockStore{}, profiles)

	p, err := svc.Current(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, "https://x/a.png", p.AvatarURL)

	_, err = svc.Current(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

package aigateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitness-hub/core/internal/config"
	"github.com/fitness-hub/core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdapter(baseURL string) *Adapter {
	return New(config.ProviderConfig{APIKey: "gw-key", BaseURL: baseURL, Model: "google/gemini-2.5-flash"}, nil)
}

func TestStream_RequestShape(t *testing.T) {
	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gw-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hey\"}}]}\n\ndata: [DONE]\n\n")
	}))
	defer srv.Close()

	up, err := newAdapter(srv.URL).Stream(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)
	defer up.Body.Close()
	assert.Equal(t, domain.ProviderFallback, up.Provider)

	assert.Equal(t, "google/gemini-2.5-flash", got.Model)
	assert.True(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, domain.FitBotPrompt, got.Messages[0].Content)
	assert.Equal(t, message{Role: "user", Content: "hi"}, got.Messages[1])
}

func TestStream_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, domain.ErrRateLimited},
		{http.StatusPaymentRequired, domain.ErrPaymentRequired},
		{http.StatusInternalServerError, domain.ErrProviderUnavailable},
		{http.StatusUnauthorized, domain.ErrProviderUnavailable},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			_, err := newAdapter(srv.URL).Stream(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want))
		})
	}
}

func TestStream_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newAdapter(url).Stream(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}})
	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable))
}

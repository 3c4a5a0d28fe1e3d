package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitness-hub/core/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAccessLog_RecordsStatusAndKeepsFlusher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := logger.FromZap(zap.New(core))

	var canFlush bool
	h := AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, canFlush = w.(http.Flusher)
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/functions/v1/fitness-chat", nil))

	assert.True(t, canFlush)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request", entry.Message)
	assert.EqualValues(t, http.StatusTeapot, entry.ContextMap()["status"])
	assert.Equal(t, "/functions/v1/fitness-chat", entry.ContextMap()["path"])
}

func TestAccessLog_ServerErrorsAtWarn(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := AccessLog(logger.FromZap(zap.New(core)))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
}

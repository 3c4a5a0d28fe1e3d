package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fitness-hub/core/internal/application/chat"
	"github.com/fitness-hub/core/internal/domain"
	"github.com/fitness-hub/core/internal/pkg/logger"
	"github.com/fitness-hub/core/internal/pkg/sse"
)

const maxChatBody = 1 << 20

// ChatHandler relays a streamed completion for the posted transcript.
type ChatHandler struct {
	svc chat.Service
	log *logger.Logger
}

func NewChatHandler(svc chat.Service, log *logger.Logger) *ChatHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ChatHandler{svc: svc, log: log}
}

func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The upstream call inherits the request context: a client that goes away
	// cancels the provider request too.
	sel, err := h.svc.Open(r.Context(), req.Messages)
	if err != nil {
		httpError(w, err, "No AI providers available. Please configure API keys.")
		return
	}
	defer sel.Close()

	sw, err := sse.NewWriter(w)
	if err != nil {
		h.log.Error("response writer cannot stream", "err", err)
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", sse.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := sel.Relay(sw); err != nil {
		h.log.Warn("relay ended early", "provider", sel.Provider, "err", err)
	}
}

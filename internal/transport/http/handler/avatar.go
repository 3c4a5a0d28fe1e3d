package handler

import (
	"net/http"

	"github.com/fitness-hub/core/internal/application/avatar"
	"github.com/fitness-hub/core/internal/transport/http/middleware"
)

// AvatarHandler accepts profile picture uploads for the authenticated user.
type AvatarHandler struct {
	svc avatar.Service
}

func NewAvatarHandler(svc avatar.Service) *AvatarHandler {
	return &AvatarHandler{svc: svc}
}

func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, avatar.MaxSize+(1<<20))
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body or file too large")
		return
	}
	defer r.MultipartForm.RemoveAll()
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	a, err := h.svc.Upload(r.Context(), avatar.UploadInput{
		Reader:   file,
		Filename: header.Filename,
		Size:     header.Size,
		UserID:   claims.UserID(),
	})
	if err != nil {
		httpError(w, err, "failed to upload avatar")
		return
	}
	writeJSON(w, http.StatusOK, AvatarEnvelope{AvatarURL: a.URL})
}

// Current returns the authenticated user's latest avatar URL.
func (h *AvatarHandler) Current(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p, err := h.svc.Current(r.Context(), claims.UserID())
	if err != nil {
		httpError(w, err, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, AvatarEnvelope{AvatarURL: p.AvatarURL})
}

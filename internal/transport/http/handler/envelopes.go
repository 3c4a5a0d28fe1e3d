package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fitness-hub/core/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OTPEnvelope is the send-otp response body.
type OTPEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AvatarEnvelope wraps avatar upload responses.
type AvatarEnvelope struct {
	AvatarURL string `json:"avatar_url"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps a service error to its status and user-facing message.
// fallback is shown for errors that carry no domain meaning.
func httpError(w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)
	writeError(w, status, messageFor(err, status, fallback))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadRequest), errors.Is(err, domain.ErrInvalidOTP):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTooManyRequests), errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrDeliveryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error, status int, fallback string) string {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		// Validation messages are safe to show; drop the sentinel suffix.
		return strings.TrimSuffix(err.Error(), ": "+domain.ErrBadRequest.Error())
	case errors.Is(err, domain.ErrInvalidOTP):
		return "Invalid or expired OTP"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrRateLimited):
		return "Rate limit exceeded on all providers. Please try again later."
	case errors.Is(err, domain.ErrPaymentRequired):
		return "Payment required. Please add funds to continue."
	case errors.Is(err, domain.ErrNoProvider):
		return "No AI providers available. Please configure API keys."
	case errors.Is(err, domain.ErrTooManyRequests):
		return "Too many requests. Please wait before trying again."
	case errors.Is(err, domain.ErrDeliveryFailed):
		return "Failed to send verification email"
	}
	if status == http.StatusNotFound {
		return "not found"
	}
	return fallback
}

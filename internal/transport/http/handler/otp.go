package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitness-hub/core/internal/application/otp"
	"github.com/fitness-hub/core/internal/domain"
)

const maxOTPBody = 16 << 10

// OTPHandler serves the single send/verify endpoint, dispatching on action.
type OTPHandler struct {
	svc otp.Service
}

func NewOTPHandler(svc otp.Service) *OTPHandler {
	return &OTPHandler{svc: svc}
}

func (h *OTPHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req domain.OTPRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOTPBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case domain.OTPActionSend:
		if err := h.svc.Send(r.Context(), req.Email); err != nil {
			httpError(w, err, "Failed to generate OTP")
			return
		}
		writeJSON(w, http.StatusOK, OTPEnvelope{Success: true, Message: "OTP sent successfully"})
	case domain.OTPActionVerify:
		err := h.svc.Verify(r.Context(), req.Email, req.OTP)
		if errors.Is(err, domain.ErrInvalidOTP) {
			writeJSON(w, http.StatusBadRequest, OTPEnvelope{Success: false, Message: "Invalid or expired OTP"})
			return
		}
		if err != nil {
			httpError(w, err, "Failed to verify OTP")
			return
		}
		writeJSON(w, http.StatusOK, OTPEnvelope{Success: true, Message: "Email verified successfully"})
	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
	}
}

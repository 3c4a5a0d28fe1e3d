package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/fitness-hub/core/internal/domain"
	"github.com/stretchr/testify/assert"
)

func fmtBadRequest(msg string) error {
	return fmt.Errorf("%s: %w", msg, domain.ErrBadRequest)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmtBadRequest("x"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrInvalidOTP), http.StatusBadRequest},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrPaymentRequired, http.StatusPaymentRequired},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrRateLimited, http.StatusTooManyRequests},
		{domain.ErrTooManyRequests, http.StatusTooManyRequests},
		{domain.ErrDeliveryFailed, http.StatusBadGateway},
		{domain.ErrNoProvider, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestMessageFor_HidesInternalDetail(t *testing.T) {
	err := errors.New("put otp record: AccessDeniedException: arn:aws:dynamodb:...")
	assert.Equal(t, "Failed to generate OTP", messageFor(err, statusFor(err), "Failed to generate OTP"))
}

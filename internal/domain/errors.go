package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManyRequests = errors.New("too many requests")
	ErrConditionFailed = errors.New("condition failed")

	ErrInvalidOTP     = errors.New("invalid or expired otp")
	ErrDeliveryFailed = errors.New("email delivery failed")

	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrNoProvider          = errors.New("no ai provider available")
	ErrRateLimited         = errors.New("upstream rate limited")
	ErrPaymentRequired     = errors.New("upstream payment required")
)

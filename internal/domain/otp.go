package domain

import "time"

// OTPRecord is the single verification item kept per email.
// PK: email. Issuing a new code replaces the item, so at most one active code exists per email.
// TTL is a Unix timestamp used as DynamoDB TTL; it trails ExpiresAt so verified
// and expired records stay around as an audit trail for a while.
// ExpiresAt is stored with second precision, so times are whole seconds.
type OTPRecord struct {
	Email      string     `json:"email" dynamodbav:"email"`
	ID         string     `json:"id" dynamodbav:"id"`
	CodeHash   string     `json:"-" dynamodbav:"code_hash"`
	ExpiresAt  time.Time  `json:"expires_at" dynamodbav:"expires_at,unixtime"`
	Verified   bool       `json:"verified" dynamodbav:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty" dynamodbav:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at" dynamodbav:"created_at"`
	TTL        int64      `json:"-" dynamodbav:"ttl"`
}

// Active reports whether the record can still satisfy a verification at now.
func (r *OTPRecord) Active(now time.Time) bool {
	return !r.Verified && !now.After(r.ExpiresAt)
}

// OTPRequest is the body accepted by the send-otp endpoint.
type OTPRequest struct {
	Email  string `json:"email"`
	Action string `json:"action"`
	OTP    string `json:"otp"`
}

const (
	OTPActionSend   = "send"
	OTPActionVerify = "verify"
)

// EmailVerifiedEvent is published after a successful verification so the
// registration flow can proceed with account creation.
type EmailVerifiedEvent struct {
	Type       string    `json:"type"`
	Email      string    `json:"email"`
	RecordID   string    `json:"record_id"`
	VerifiedAt time.Time `json:"verified_at"`
}

const EventEmailVerified = "email.verified"

package domain

import "time"

// Profile is the per-user record the avatar upload updates.
type Profile struct {
	UserID    string    `json:"user_id"    dynamodbav:"user_id"`
	AvatarURL string    `json:"avatar_url" dynamodbav:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

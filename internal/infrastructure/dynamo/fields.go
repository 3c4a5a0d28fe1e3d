package dynamo

// DynamoDB attribute names used in key, update and condition expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail      = "email"
	fieldID         = "id"
	fieldVerified   = "verified"
	fieldVerifiedAt = "verified_at"
	fieldExpiresAt  = "expires_at"
	fieldTTL        = "ttl"

	fieldUserID    = "user_id"
	fieldAvatarURL = "avatar_url"
	fieldUpdatedAt = "updated_at"
)

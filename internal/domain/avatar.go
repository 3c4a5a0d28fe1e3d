package domain

// Avatar is the stored profile picture of a user.
type Avatar struct {
	UserID string `json:"user_id"`
	Key    string `json:"key"`
	URL    string `json:"avatar_url"`
}

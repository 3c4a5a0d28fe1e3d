package domain

// Email is an outgoing transactional message. Text is the plain-text
// alternative; senders that cannot do multipart fall back to it.
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

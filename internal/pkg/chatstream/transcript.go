package chatstream

import (
	"strings"

	"github.com/fitness-hub/core/internal/domain"
)

// Transcript is the conversation owned by the client for one chat session.
// The trailing assistant message is always replaced wholesale with the
// accumulated text, so it equals the in-order concatenation of fragments.
type Transcript struct {
	messages  []domain.Message
	acc       strings.Builder
	receiving bool
}

// AddUser appends a user turn.
func (t *Transcript) AddUser(content string) {
	t.messages = append(t.messages, domain.Message{Role: domain.RoleUser, Content: content})
}

// BeginAssistant appends an empty assistant turn and resets the accumulator.
func (t *Transcript) BeginAssistant() {
	t.acc.Reset()
	t.receiving = true
	t.messages = append(t.messages, domain.Message{Role: domain.RoleAssistant})
}

// Append adds a fragment to the trailing assistant turn and returns its full text.
func (t *Transcript) Append(fragment string) string {
	t.acc.WriteString(fragment)
	text := t.acc.String()
	if n := len(t.messages); n > 0 && t.messages[n-1].Role == domain.RoleAssistant {
		t.messages[n-1] = domain.Message{Role: domain.RoleAssistant, Content: text}
	}
	return text
}

// EndAssistant leaves the receiving state. An assistant turn that received
// nothing is removed so it is not sent upstream on the next request.
func (t *Transcript) EndAssistant() {
	t.receiving = false
	if n := len(t.messages); n > 0 && t.messages[n-1].Role == domain.RoleAssistant && t.messages[n-1].Content == "" {
		t.messages = t.messages[:n-1]
	}
}

// Receiving reports whether an assistant turn is being streamed.
func (t *Transcript) Receiving() bool { return t.receiving }

// Messages returns a copy of the conversation.
func (t *Transcript) Messages() []domain.Message {
	out := make([]domain.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Clear drops the conversation.
func (t *Transcript) Clear() {
	t.messages = nil
	t.acc.Reset()
	t.receiving = false
}

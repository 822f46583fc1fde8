package domain

import "time"

// MessageRole identifies who authored a transcript message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one transcript entry. Assistant messages carry the intent
// that produced them; user messages leave it empty.
type Message struct {
	ID        string
	SessionID string
	Role      MessageRole
	Content   string
	Intent    Intent
	CreatedAt time.Time
}

package models

import "time"

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single turn of a conversation.
type Message struct {
	Role    MessageRole `json:"role" bson:"role"`
	Content string      `json:"content" bson:"content"`
}

// Conversation is the persisted history of one user, oldest message first.
type Conversation struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Messages  []Message `json:"messages" bson:"messages"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CloneMessages returns a copy of messages that shares no backing array with the input.
func CloneMessages(messages []Message) []Message {
	if len(messages) == 0 {
		return []Message{}
	}
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}

package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a conversation with a character. Conversations live in memory only.
type ChatMessage struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	// Error marks the synthetic reply that stands in for a failed turn.
	Error bool `json:"error,omitempty"`
}

// ChatReply is the backend's answer to a chat turn.
type ChatReply struct {
	Response string `json:"response"`
}

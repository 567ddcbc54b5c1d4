// Package domain defines the core data model for the simulation: chat
// messages, the scenario graph, session state and judge decisions.
package domain

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single role-tagged turn. Messages are immutable once
// created; ordering within a conversation is chronological and meaningful.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// System creates a system message.
func System(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// User creates a user message.
func User(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// Assistant creates an assistant message.
func Assistant(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

func (m ChatMessage) String() string {
	return "[" + string(m.Role) + "]: " + m.Content
}

package domain

import "time"

const (
	// ChatHistoryLimit bounds a room's retained chat history; the oldest
	// messages are evicted first.
	ChatHistoryLimit = 100

	MessageKindSystem = "system"
)

type ChatMessage struct {
	Id        string    `json:"id"`
	Kind      string    `json:"type,omitempty"`
	Username  string    `json:"username,omitempty"`
	Message   string    `json:"message"`
	Color     string    `json:"color,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

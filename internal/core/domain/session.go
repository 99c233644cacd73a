package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SessionMessage is one conversation turn. Metadata carries per-turn details
// such as the chosen format or quality rating.
type SessionMessage struct {
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// MaxSessionMessages caps per-session history; the oldest message is evicted
// when a 51st arrives.
const MaxSessionMessages = 50

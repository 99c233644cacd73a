package usecase

import (
	"strings"
	"time"

	"github.com/scholara/answer-engine/internal/core/domain"
	"github.com/scholara/answer-engine/internal/core/ports"
)

const (
	shortQuestionLen  = 10
	referenceExcerpt  = 50
	defaultHistoryLen = 10
)

// ConversationMemory keeps per-session rolling history and performs a narrow
// form of reference resolution for terse follow-up questions. It is not a
// general coreference resolver.
type ConversationMemory struct {
	store ports.SessionStore
}

func NewConversationMemory(store ports.SessionStore) *ConversationMemory {
	return &ConversationMemory{store: store}
}

func (m *ConversationMemory) Store(sessionID, role, content string, metadata map[string]string) {
	if sessionID == "" || content == "" {
		return
	}
	m.store.Append(sessionID, domain.SessionMessage{
		Role:      role,
		Content:   content,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	})
}

func (m *ConversationMemory) Context(sessionID string, limit int) []domain.SessionMessage {
	if limit <= 0 {
		limit = defaultHistoryLen
	}
	return m.store.Recent(sessionID, limit)
}

// ResolveReferences rewrites a very short question to carry an excerpt of the
// previous assistant answer as parenthetical context. Anything longer passes
// through untouched.
func (m *ConversationMemory) ResolveReferences(question string, history []domain.SessionMessage) string {
	trimmed := strings.TrimSpace(question)
	if len([]rune(trimmed)) >= shortQuestionLen || len(history) == 0 {
		return question
	}

	last := history[len(history)-1]
	if last.Role != domain.RoleAssistant {
		return question
	}

	excerpt := strings.Join(strings.Fields(last.Content), " ")
	if runes := []rune(excerpt); len(runes) > referenceExcerpt {
		excerpt = string(runes[:referenceExcerpt])
	}
	if excerpt == "" {
		return question
	}
	return trimmed + " (regarding: " + excerpt + ")"
}

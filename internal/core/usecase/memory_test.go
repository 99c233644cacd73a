package usecase

import (
	"strings"
	"testing"

	"github.com/scholara/answer-engine/internal/core/domain"
)

func TestResolveReferencesExpandsShortFollowUp(t *testing.T) {
	memory := NewConversationMemory(newFakeSessionStore())
	history := []domain.SessionMessage{
		{Role: domain.RoleUser, Content: "what is raft?"},
		{Role: domain.RoleAssistant, Content: "Raft elects a leader each term and replicates a log."},
	}

	got := memory.ResolveReferences("why?", history)
	want := "why? (regarding: Raft elects a leader each term and replicates a lo)"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestResolveReferencesLeavesLongQuestionsAlone(t *testing.T) {
	memory := NewConversationMemory(newFakeSessionStore())
	history := []domain.SessionMessage{
		{Role: domain.RoleAssistant, Content: "previous answer text"},
	}

	question := "how does leader election work?"
	if got := memory.ResolveReferences(question, history); got != question {
		t.Fatalf("long question must pass through, got %q", got)
	}
}

func TestResolveReferencesRequiresAssistantTurn(t *testing.T) {
	memory := NewConversationMemory(newFakeSessionStore())
	history := []domain.SessionMessage{
		{Role: domain.RoleAssistant, Content: "older answer"},
		{Role: domain.RoleUser, Content: "latest user message"},
	}

	if got := memory.ResolveReferences("why?", history); got != "why?" {
		t.Fatalf("non-assistant last turn must not resolve, got %q", got)
	}
	if got := memory.ResolveReferences("why?", nil); got != "why?" {
		t.Fatalf("empty history must not resolve, got %q", got)
	}
}

func TestResolveReferencesCollapsesExcerptWhitespace(t *testing.T) {
	memory := NewConversationMemory(newFakeSessionStore())
	history := []domain.SessionMessage{
		{Role: domain.RoleAssistant, Content: "short\n\n  answer"},
	}

	got := memory.ResolveReferences("and?", history)
	if !strings.HasSuffix(got, "(regarding: short answer)") {
		t.Fatalf("excerpt whitespace not collapsed: %q", got)
	}
}

func TestStoreAndContextRoundTrip(t *testing.T) {
	store := newFakeSessionStore()
	memory := NewConversationMemory(store)

	memory.Store("s1", domain.RoleUser, "first question", nil)
	memory.Store("s1", domain.RoleAssistant, "first answer", map[string]string{"format": "narrative"})
	memory.Store("", domain.RoleUser, "dropped without session", nil)
	memory.Store("s1", domain.RoleUser, "", nil)

	history := memory.Context("s1", 10)
	if len(history) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(history))
	}
	if history[0].Content != "first question" || history[1].Content != "first answer" {
		t.Fatalf("unexpected history %+v", history)
	}
	if history[1].Metadata["format"] != "narrative" {
		t.Fatalf("metadata lost: %+v", history[1])
	}
	if history[0].Timestamp.IsZero() {
		t.Fatal("timestamp must be set on append")
	}
}

package memstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/scholara/answer-engine/internal/core/domain"
)

func TestAppendCapsSessionAtMaxMessages(t *testing.T) {
	store := New(0)
	for i := 0; i < domain.MaxSessionMessages+1; i++ {
		store.Append("s-1", domain.SessionMessage{
			Role:    domain.RoleUser,
			Content: fmt.Sprintf("message %d", i),
		})
	}

	got := store.Recent("s-1", domain.MaxSessionMessages+10)
	if len(got) != domain.MaxSessionMessages {
		t.Fatalf("expected %d messages, got %d", domain.MaxSessionMessages, len(got))
	}
	if got[0].Content != "message 1" {
		t.Fatalf("expected oldest message dropped, got first = %q", got[0].Content)
	}
	if got[len(got)-1].Content != fmt.Sprintf("message %d", domain.MaxSessionMessages) {
		t.Fatalf("expected newest message kept, got last = %q", got[len(got)-1].Content)
	}
}

func TestRecentReturnsNewestSuffix(t *testing.T) {
	store := New(0)
	for i := 0; i < 5; i++ {
		store.Append("s-1", domain.SessionMessage{Role: domain.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}

	got := store.Recent("s-1", 2)
	if len(got) != 2 || got[0].Content != "m3" || got[1].Content != "m4" {
		t.Fatalf("expected newest two messages, got %+v", got)
	}
	if got := store.Recent("missing", 2); got != nil {
		t.Fatalf("expected nil for unknown session, got %+v", got)
	}
}

func TestLRUEvictsLeastRecentlyUsedSession(t *testing.T) {
	store := New(2)
	var evictions int
	store.SetEvictionHook(func() { evictions++ })

	store.Append("a", domain.SessionMessage{Role: domain.RoleUser, Content: "x"})
	store.Append("b", domain.SessionMessage{Role: domain.RoleUser, Content: "x"})
	store.Recent("a", 1) // refresh "a" so "b" is the LRU victim
	store.Append("c", domain.SessionMessage{Role: domain.RoleUser, Content: "x"})

	if store.Len() != 2 {
		t.Fatalf("expected 2 live sessions, got %d", store.Len())
	}
	if got := store.Recent("b", 1); got != nil {
		t.Fatalf("expected session b evicted, got %+v", got)
	}
	if got := store.Recent("a", 1); len(got) != 1 {
		t.Fatalf("expected session a kept")
	}
	if evictions != 1 {
		t.Fatalf("expected one eviction callback, got %d", evictions)
	}
}

func TestEvictRemovesSession(t *testing.T) {
	store := New(0)
	store.Append("s-1", domain.SessionMessage{Role: domain.RoleUser, Content: "x"})
	store.Evict("s-1")
	if store.Len() != 0 {
		t.Fatalf("expected session removed")
	}
	store.Evict("s-1") // no-op on missing session
}

func TestConcurrentAppendsAreSerialized(t *testing.T) {
	store := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				store.Append("shared", domain.SessionMessage{
					Role:    domain.RoleUser,
					Content: fmt.Sprintf("g%d-%d", n, j),
				})
			}
		}(i)
	}
	wg.Wait()

	got := store.Recent("shared", domain.MaxSessionMessages)
	if len(got) != domain.MaxSessionMessages {
		t.Fatalf("expected cap %d after concurrent appends, got %d", domain.MaxSessionMessages, len(got))
	}
}

package memstore

import (
	"container/list"
	"sync"

	"github.com/scholara/answer-engine/internal/core/domain"
)

const defaultMaxSessions = 10000

type session struct {
	id       string
	messages []domain.SessionMessage
	lruElem  *list.Element
}

// Store keeps rolling per-session history in memory. Each session holds at
// most domain.MaxSessionMessages entries; when the session count exceeds the
// configured cap the least recently used session is evicted wholesale.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*session
	lru         *list.List
	maxSessions int

	onEvict func()
}

func New(maxSessions int) *Store {
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	return &Store{
		sessions:    make(map[string]*session),
		lru:         list.New(),
		maxSessions: maxSessions,
	}
}

// SetEvictionHook registers a callback fired once per evicted session. Used
// for metrics; must be set before the store sees traffic.
func (s *Store) SetEvictionHook(fn func()) {
	s.onEvict = fn
}

func (s *Store) Append(sessionID string, msg domain.SessionMessage) {
	if sessionID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.touch(sessionID)
	sess.messages = append(sess.messages, msg)
	if overflow := len(sess.messages) - domain.MaxSessionMessages; overflow > 0 {
		sess.messages = sess.messages[overflow:]
	}
	s.evictOverCap()
}

func (s *Store) Recent(sessionID string, limit int) []domain.SessionMessage {
	if sessionID == "" || limit <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	s.lru.MoveToFront(sess.lruElem)

	start := len(sess.messages) - limit
	if start < 0 {
		start = 0
	}
	out := make([]domain.SessionMessage, len(sess.messages)-start)
	copy(out, sess.messages[start:])
	return out
}

func (s *Store) Evict(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	s.lru.Remove(sess.lruElem)
	delete(s.sessions, sessionID)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) touch(sessionID string) *session {
	if sess, ok := s.sessions[sessionID]; ok {
		s.lru.MoveToFront(sess.lruElem)
		return sess
	}
	sess := &session{id: sessionID}
	sess.lruElem = s.lru.PushFront(sess)
	s.sessions[sessionID] = sess
	return sess
}

func (s *Store) evictOverCap() {
	for len(s.sessions) > s.maxSessions {
		oldest := s.lru.Back()
		if oldest == nil {
			return
		}
		sess := oldest.Value.(*session)
		s.lru.Remove(oldest)
		delete(s.sessions, sess.id)
		if s.onEvict != nil {
			s.onEvict()
		}
	}
}

package memstore

import (
	"sync"
	"time"

	"github.com/bryanwahyu/debtguard/internal/domain/session"
)

// Sessions is the in-memory session store. Sessions live only in this
// process and disappear on restart; an idle janitor evicts abandoned ones.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	maxIdle  time.Duration
}

func New(maxIdle time.Duration) *Sessions {
	if maxIdle <= 0 {
		maxIdle = 2 * time.Hour
	}
	s := &Sessions{
		sessions: make(map[string]*session.Session),
		maxIdle:  maxIdle,
	}
	go s.janitor()
	return s
}

func (s *Sessions) Put(sess *session.Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
}

func (s *Sessions) Get(id string) (*session.Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	return sess, ok
}

func (s *Sessions) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions, used by metrics.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Sessions) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-s.maxIdle)
		s.mu.Lock()
		for id, sess := range s.sessions {
			if sess.LastSeen().Before(cutoff) {
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
	}
}

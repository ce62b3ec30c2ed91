package sessions

import (
	"github.com/google/uuid"

	"github.com/bryanwahyu/debtguard/internal/application"
	domain "github.com/bryanwahyu/debtguard/internal/domain/session"
)

// Service implements session creation and lookup.
type Service struct {
	Store domain.Store
	Clock application.Clock
}

// Create registers a fresh session with seeded per-session state.
func (s *Service) Create() *domain.Session {
	sess := domain.New(uuid.New().String(), s.Clock.Now())
	s.Store.Put(sess)
	return sess
}

// Get resolves a session id and marks the session active.
func (s *Service) Get(id string) (*domain.Session, error) {
	sess, ok := s.Store.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	sess.Touch(s.Clock.Now())
	return sess, nil
}

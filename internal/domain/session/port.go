package session

// Store port (interface for session storage)
type Store interface {
	Put(s *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

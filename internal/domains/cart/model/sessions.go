package model

import "sync"

// Sessions owns one Container per session id. A cart exists from Open until End;
// nothing expires on its own.
type Sessions struct {
	mu    sync.Mutex
	carts map[string]*Container
}

func NewSessions() *Sessions {
	return &Sessions{carts: make(map[string]*Container)}
}

// Open returns the session's cart, creating an empty one on first use.
func (s *Sessions) Open(sessionID string) *Container {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = NewContainer()
		s.carts[sessionID] = c
	}
	return c
}

func (s *Sessions) Get(sessionID string) (*Container, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	return c, ok
}

// End tears the session's cart down. Ending an unknown session is a no-op.
func (s *Sessions) End(sessionID string) {
	s.mu.Lock()
	c, ok := s.carts[sessionID]
	delete(s.carts, sessionID)
	s.mu.Unlock()

	if ok {
		c.Clear()
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	values    map[Key]string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. It is used when Redis is
// not configured; expired sessions are hidden on read and removed by Sweep.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store whose sessions expire ttl after the
// last write.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) live(sid string) (*memoryEntry, bool) {
	e, ok := s.sessions[sid]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, false
	}
	return e, true
}

// Get returns one value of a session.
func (s *MemoryStore) Get(_ context.Context, sid string, key Key) (string, bool, error) {
	if err := validate(sid, key); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.live(sid)
	if !ok {
		return "", false, nil
	}
	v, ok := e.values[key]
	return v, ok, nil
}

// Set stores a value and refreshes the session expiry.
func (s *MemoryStore) Set(_ context.Context, sid string, key Key, value string) error {
	if err := validate(sid, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(sid)
	if !ok {
		e = &memoryEntry{values: make(map[Key]string, len(Keys))}
		s.sessions[sid] = e
	}
	e.values[key] = value
	e.expiresAt = s.now().Add(s.ttl)
	return nil
}

// Delete removes one value.
func (s *MemoryStore) Delete(_ context.Context, sid string, key Key) error {
	if err := validate(sid, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.live(sid); ok {
		delete(e.values, key)
	}
	return nil
}

// All returns a copy of every value of a session.
func (s *MemoryStore) All(_ context.Context, sid string) (map[Key]string, error) {
	if sid == "" {
		return nil, ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Key]string)
	if e, ok := s.live(sid); ok {
		for k, v := range e.values {
			out[k] = v
		}
	}
	return out, nil
}

// Clear drops the whole session.
func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	if sid == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sid)
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Count returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// Sweep deletes expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for sid, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, sid)
			removed++
		}
	}
	return removed
}

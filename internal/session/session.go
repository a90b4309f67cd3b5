// Package session tracks which users have picked a region and are allowed to query.
package session

import (
	"sync"
	"time"

	"github.com/farxc/consulta-energia/internal/region"
)

type Session struct {
	UserID       int64
	Name         string
	Region       region.Code
	LoginTime    time.Time
	LastActivity time.Time
}

// Store keeps sessions and pending regions behind one lock so a Create is
// never observed half-written.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Session
	pending  map[int64]region.Code
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]Session),
		pending:  make(map[int64]region.Code),
		now:      time.Now,
	}
}

// SetPendingRegion remembers the user's last region choice. Last write wins.
func (s *Store) SetPendingRegion(userID int64, r string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[userID] = region.Code(region.Normalize(r))
}

func (s *Store) PendingRegion(userID int64) (region.Code, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.pending[userID]
	return r, ok
}

// Create (re)writes the user's session with fresh timestamps and sets the
// pending region to the same value.
func (s *Store) Create(userID int64, name, r string) Session {
	code := region.Code(region.Normalize(r))

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := Session{
		UserID:       userID,
		Name:         name,
		Region:       code,
		LoginTime:    now,
		LastActivity: now,
	}
	s.sessions[userID] = sess
	s.pending[userID] = code
	return sess
}

func (s *Store) IsAuthenticated(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[userID]
	return ok
}

func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Touch bumps LastActivity. It is a no-op for users without a session.
func (s *Store) Touch(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return
	}
	sess.LastActivity = s.now()
	s.sessions[userID] = sess
}

// Logout drops both the session and the pending region.
func (s *Store) Logout(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	delete(s.pending, userID)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

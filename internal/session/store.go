package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/adn360mx/imgopt/internal/hasher"
)

// Store keeps sessions in memory. Nothing survives the process.
type Store struct {
	sessions  map[string]*ImageSession
	mu        sync.RWMutex
	seq       atomic.Uint64
	maxPixels int64
}

// NewStore creates a store that rejects uploads larger than maxPixels
// (0 = no limit).
func NewStore(maxPixels int64) *Store {
	return &Store{
		sessions:  make(map[string]*ImageSession),
		maxPixels: maxPixels,
	}
}

// Create validates an upload and stores it as a new session, removing the
// session named by replace. A failed upload leaves the store unchanged.
func (s *Store) Create(fileName, declaredType string, data []byte, replace string) (*ImageSession, error) {
	id := hasher.SessionID(data, s.seq.Add(1))
	sess, err := NewFromUpload(id, fileName, declaredType, data, s.maxPixels)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if replace != "" {
		delete(s.sessions, replace)
	}
	s.sessions[id] = sess
	return sess, nil
}

// Get returns the session and counts the lookup as activity, so an open
// page keeps its session alive.
func (s *Store) Get(id string) (*ImageSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch()
	return sess, nil
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle since before now-ttl and returns how many.
func (s *Store) Sweep(now time.Time, ttl time.Duration) int {
	cutoff := now.Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt().Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

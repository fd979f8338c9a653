package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kontrollapro/backend/internal/application/checkout"
)

// sessionEntry holds a serialized session with expiration
type sessionEntry struct {
	payload   []byte
	expiresAt time.Time
}

// InMemorySessionStore implements checkout.SessionStore using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemorySessionStore struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]sessionEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySessionStore creates a new in-memory session store
// It starts a background goroutine to clean up expired sessions
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	store := &InMemorySessionStore{
		entries:  make(map[uuid.UUID]sessionEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Get loads a session by ID, returning ErrSessionNotFound on miss or expiry
func (s *InMemorySessionStore) Get(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	s.mu.RLock()
	e, exists := s.entries[id]
	s.mu.RUnlock()

	if !exists || time.Now().After(e.expiresAt) {
		return nil, checkout.ErrSessionNotFound
	}

	return decodeSession(e.payload)
}

// Save stores a session and refreshes its TTL
func (s *InMemorySessionStore) Save(ctx context.Context, session *checkout.Session) error {
	payload, err := encodeSession(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[session.ID] = sessionEntry{
		payload:   payload,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error
func (s *InMemorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (s *InMemorySessionStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired sessions
func (s *InMemorySessionStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired sessions from the store
func (s *InMemorySessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}

// Size returns the number of stored sessions (for testing/monitoring)
func (s *InMemorySessionStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemorySessionStore implements checkout.SessionStore
var _ checkout.SessionStore = (*InMemorySessionStore)(nil)

// Package session persists respondent traversals between HTTP requests. The
// player service is stateless; the traversal is loaded, mutated, and saved on
// every call, keyed by session ID with a sliding TTL.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"

	"github.com/google/uuid"
)

// Store persists traversals keyed by session ID.
type Store interface {
	// Save writes the traversal and refreshes its TTL.
	Save(ctx context.Context, traversal *domain.Traversal) error
	// Load returns the traversal, or apperr.Gone when the session expired or
	// never existed. Expiry and never-existed are indistinguishable on
	// purpose: both mean "start over".
	Load(ctx context.Context, sessionID uuid.UUID) (*domain.Traversal, error)
	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

// ErrSessionGone builds the shared expiry error so both stores and the
// service report it identically.
func ErrSessionGone() error {
	return apperr.Gone("session expired or not found")
}

type memoryEntry struct {
	traversal *domain.Traversal
	expiresAt time.Time
}

// MemoryStore is a process-local store for tests and single-node development.
type MemoryStore struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[uuid.UUID]memoryEntry),
	}
}

func (s *MemoryStore) Save(_ context.Context, traversal *domain.Traversal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[traversal.SessionID] = memoryEntry{
		traversal: traversal,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID uuid.UUID) (*domain.Traversal, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrSessionGone()
	}
	return entry.traversal, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

package chatstore

import (
	"context"
	"sync"

	"github.com/nivkeren/wellness-coach/internal/domain/coach"
)

// MemoryStore is an in-memory implementation of the chat store for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	states  map[int64]coach.State
	history map[int64][]coach.HistoryEntry
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:  make(map[int64]coach.State),
		history: make(map[int64][]coach.HistoryEntry),
	}
}

// State implements coach.Store.
func (s *MemoryStore) State(_ context.Context, userID int64) (coach.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[userID], nil
}

// SaveState replaces the pending follow-up context.
func (s *MemoryStore) SaveState(_ context.Context, userID int64, st coach.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = st
	return nil
}

// ClearState drops any pending follow-up context.
func (s *MemoryStore) ClearState(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	return nil
}

// AppendHistory adds an entry and evicts the oldest past the limit.
func (s *MemoryStore) AppendHistory(_ context.Context, userID int64, entry coach.HistoryEntry, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := append(s.history[userID], entry)
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	s.history[userID] = entries
	return nil
}

// History returns a copy of the transcript, oldest first.
func (s *MemoryStore) History(_ context.Context, userID int64) ([]coach.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.history[userID]
	out := make([]coach.HistoryEntry, len(entries))
	copy(out, entries)
	return out, nil
}

var _ coach.Store = (*MemoryStore)(nil)

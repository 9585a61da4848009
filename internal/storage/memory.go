// ABOUTME: In-memory conversation store used as the best-effort degrade target
// ABOUTME: Bounded per-identity capacity that always keeps the newest turns
package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/verso-ai/verso/internal/models"
)

// DefaultMemoryCapacity bounds turns kept per identity in memory
const DefaultMemoryCapacity = 200

// MemoryStore is a process-local ConversationStore. The request path
// degrades to it when the KV backend is unavailable.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	turns    map[string][]models.Turn
}

// NewMemoryStore creates an in-memory store with the given per-identity
// capacity; zero or negative uses the default.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		turns:    make(map[string][]models.Turn),
	}
}

// Append adds a turn, evicting the oldest when over capacity
func (s *MemoryStore) Append(identity string, turn *models.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.turns[identity], *turn)
	if len(turns) > s.capacity {
		turns = turns[len(turns)-s.capacity:]
	}
	s.turns[identity] = turns
	return nil
}

// Recent returns turns within the window, oldest first
func (s *MemoryStore) Recent(identity string, window time.Duration) ([]models.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().UTC().Add(-window)
	var out []models.Turn
	for _, turn := range s.turns[identity] {
		if !turn.Timestamp.Before(cutoff) {
			out = append(out, turn)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Clear removes all turns for the identity
func (s *MemoryStore) Clear(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, identity)
	return nil
}

// PurgeOlderThan removes turns older than age across all identities
func (s *MemoryStore) PurgeOlderThan(age time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-age)
	removed := 0
	for identity, turns := range s.turns {
		kept := turns[:0]
		for _, turn := range turns {
			if turn.Timestamp.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, turn)
		}
		if len(kept) == 0 {
			delete(s.turns, identity)
			continue
		}
		s.turns[identity] = kept
	}
	return removed, nil
}

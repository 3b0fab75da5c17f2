// internal/store/memory.go
//
// In-memory implementation of the mission Store interface.
// Missions are live sessions, never persisted: the process owns them and they
// vanish on restart.
//
// Characteristics:
//   - Stores *mission.Session objects keyed by mission ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Get/Delete return ErrNotFound for unknown IDs.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/defuse/internal/mission"
)

// ErrNotFound is returned for unknown mission IDs.
var ErrNotFound = errors.New("mission not found")

// Store defines the lookup interface for live missions.
type Store interface {
	// Save adds or replaces the session under id.
	Save(ctx context.Context, id string, s *mission.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*mission.Session, error)

	// Delete drops a session.
	Delete(ctx context.Context, id string) error

	// Len reports how many missions are held.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex                // guards missions
	missions map[string]*mission.Session // keyed by mission ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{missions: make(map[string]*mission.Session)}
}

func (m *memory) Save(_ context.Context, id string, s *mission.Session) error {
	if id == "" || s == nil {
		return errors.New("store: empty id or nil session")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.missions[id] = s
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*mission.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.missions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.missions[id]; !ok {
		return ErrNotFound
	}
	delete(m.missions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.missions)
}

package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Store holds conversation state keyed by session id. Get returns
// (nil, nil) for an unknown id. Implementations must keep archived
// sessions readable: termination archives, it never erases.
type Store interface {
	Get(ctx context.Context, sessionID string) (*State, error)
	Put(ctx context.Context, state *State) error
	Close() error
}

// StoreStats summarizes a store for the stats endpoint.
type StoreStats struct {
	ActiveSessions   int `json:"active_sessions"`
	ArchivedSessions int `json:"archived_sessions"`
}

// StatsProvider is implemented by stores that can count their sessions.
type StatsProvider interface {
	Stats(ctx context.Context) (StoreStats, error)
}

// InMemoryStore keeps sessions in a process-local map. Suitable for a
// single node; for distributed deployments use the Redis store.
type InMemoryStore struct {
	sessions map[string]*State
	mu       sync.RWMutex

	maxAge          time.Duration
	cleanupInterval time.Duration

	stopCleanup chan struct{}
	cleanupOnce sync.Once
}

// MemoryStoreOption configures an InMemoryStore.
type MemoryStoreOption func(*InMemoryStore)

// WithMaxAge sets the idle TTL for active sessions.
func WithMaxAge(d time.Duration) MemoryStoreOption {
	return func(s *InMemoryStore) { s.maxAge = d }
}

// WithCleanupInterval sets how often the expiry sweep runs.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(s *InMemoryStore) { s.cleanupInterval = d }
}

// NewInMemoryStore creates the map-backed store and starts its
// background expiry sweep.
func NewInMemoryStore(opts ...MemoryStoreOption) *InMemoryStore {
	s := &InMemoryStore{
		sessions:        make(map[string]*State),
		maxAge:          30 * time.Minute,
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()
	return s
}

// Get retrieves a session. Idle-expired active sessions read as
// absent; archived sessions never expire.
func (s *InMemoryStore) Get(_ context.Context, sessionID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if !state.Archived && time.Since(state.LastTurnAt) > s.maxAge {
		return nil, nil
	}
	return state, nil
}

// Put creates or replaces a session.
func (s *InMemoryStore) Put(_ context.Context, state *State) error {
	if state == nil {
		return fmt.Errorf("session state is nil")
	}
	if state.SessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.SessionID] = state
	return nil
}

// Stats counts active and archived sessions.
func (s *InMemoryStore) Stats(_ context.Context) (StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats StoreStats
	for _, state := range s.sessions {
		if state.Archived {
			stats.ArchivedSessions++
		} else {
			stats.ActiveSessions++
		}
	}
	return stats, nil
}

// Close stops the cleanup goroutine.
func (s *InMemoryStore) Close() error {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}

func (s *InMemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

// cleanup removes idle active sessions. Archived sessions stay until
// explicit retention deletes them out of band.
func (s *InMemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, state := range s.sessions {
		if !state.Archived && now.Sub(state.LastTurnAt) > s.maxAge {
			delete(s.sessions, id)
		}
	}
}

var _ Store = (*InMemoryStore)(nil)
var _ StatsProvider = (*InMemoryStore)(nil)

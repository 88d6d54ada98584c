// ABOUTME: In-memory mount store with TTL cleanup and capacity limits
// ABOUTME: Thread-safe storage for every live editor mount across all page views

package editor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Store struct {
	mu        sync.RWMutex
	mounts    map[string]*Mount
	maxMounts int
	ttl       time.Duration
	onEvict   []func(*Mount)
}

// NewStore creates a new mount store
func NewStore(maxMounts int, ttl time.Duration) *Store {
	return &Store{
		mounts:    make(map[string]*Mount),
		maxMounts: maxMounts,
		ttl:       ttl,
	}
}

// OnEvict registers a callback invoked for every mount removed by Delete,
// capacity eviction, or TTL cleanup. Callbacks run after the store lock is
// released, in registration order.
func (s *Store) OnEvict(fn func(*Mount)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvict = append(s.onEvict, fn)
}

// Create creates a new mount from a mount point spec
func (s *Store) Create(spec MountSpec) *Mount {
	s.mu.Lock()
	var evicted []*Mount

	// Check capacity
	if s.maxMounts > 0 && len(s.mounts) >= s.maxMounts {
		// Evict least recently used mount
		var oldestID string
		var oldestTime time.Time
		for id, m := range s.mounts {
			if oldestTime.IsZero() || m.LastAccess.Before(oldestTime) {
				oldestID = id
				oldestTime = m.LastAccess
			}
		}
		evicted = s.evictLocked(oldestID, evicted)
	}

	m := newMount(uuid.New().String(), spec, time.Now())
	s.mounts[m.ID] = m
	hooks := s.onEvict
	s.mu.Unlock()

	notifyEvicted(hooks, evicted)
	return m
}

// Get retrieves a mount by ID and updates its LastAccess time
func (s *Store) Get(id string) (*Mount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.mounts[id]
	if !ok {
		return nil, false
	}

	m.LastAccess = time.Now()
	return m, true
}

// Delete removes a mount and releases its markers
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	evicted := s.evictLocked(id, nil)
	hooks := s.onEvict
	s.mu.Unlock()

	notifyEvicted(hooks, evicted)
	return len(evicted) > 0
}

// Len returns the number of live mounts
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mounts)
}

// Cleanup removes mounts idle for longer than TTL
func (s *Store) Cleanup() {
	s.mu.Lock()
	var evicted []*Mount
	cutoff := time.Now().Add(-s.ttl)
	for id, m := range s.mounts {
		if m.LastAccess.Before(cutoff) {
			evicted = s.evictLocked(id, evicted)
		}
	}
	hooks := s.onEvict
	s.mu.Unlock()

	notifyEvicted(hooks, evicted)
}

// evictLocked removes id, releases its markers, and appends it to evicted.
func (s *Store) evictLocked(id string, evicted []*Mount) []*Mount {
	m, ok := s.mounts[id]
	if !ok {
		return evicted
	}
	m.Release()
	delete(s.mounts, id)
	return append(evicted, m)
}

func notifyEvicted(hooks []func(*Mount), evicted []*Mount) {
	for _, m := range evicted {
		for _, fn := range hooks {
			fn(m)
		}
	}
}

// StartCleanup starts a background cleanup goroutine and returns a stop function
func (s *Store) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/factorydirect/backend/internal/domain/shared"
)

type claim struct {
	expiresAt time.Time
}

// InMemoryIdempotencyStore keeps claimed submission keys in a map.
// Suitable for single-instance deployments and tests; a second server
// instance would not see its claims.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	claims    map[string]claim
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts a background
// sweep of expired claims
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		claims:   make(map[string]claim),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.sweepLoop()

	return store
}

// MarkProcessed claims a submission key for the TTL.
// Returns true when the key was newly claimed, false when a live claim
// already holds it.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, exists := s.claims[key]; exists && time.Now().Before(c.expiresAt) {
		return false, nil
	}

	s.claims[key] = claim{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// IsProcessed reports whether a live claim holds the key
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.claims[key]
	if !exists || time.Now().After(c.expiresAt) {
		return false, nil
	}
	return true, nil
}

// Close stops the sweep goroutine. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, c := range s.claims {
		if now.After(c.expiresAt) {
			delete(s.claims, key)
		}
	}
}

// Size returns the number of live and expired claims still held
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.claims)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

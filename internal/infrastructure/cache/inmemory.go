package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryStore implements Store in process memory.
// A background goroutine drops expired entries; MaxEntries bounds the map.
type InMemoryStore struct {
	mu         sync.RWMutex
	items      map[string]item
	maxEntries int
	now        func() time.Time

	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryStore creates an in-memory store holding at most maxEntries items
// (0 means unbounded) and starts its cleanup loop.
func NewInMemoryStore(maxEntries int, cleanupInterval time.Duration) *InMemoryStore {
	s := &InMemoryStore{
		items:      make(map[string]item),
		maxEntries: maxEntries,
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}

	if cleanupInterval > 0 {
		s.wg.Add(1)
		go s.cleanupLoop(cleanupInterval)
	}

	return s
}

// Get returns the cached value or ErrMiss
func (s *InMemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[key]
	if !ok || !s.now().Before(it.expiresAt) {
		return nil, ErrMiss
	}
	return it.value, nil
}

// Set stores value with the given TTL
func (s *InMemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; !exists && s.maxEntries > 0 && len(s.items) >= s.maxEntries {
		s.removeExpiredLocked()
		if len(s.items) >= s.maxEntries {
			s.evictOldestLocked()
		}
	}

	s.items[key] = item{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

// Len returns the number of stored entries, expired ones included
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.removeExpiredLocked()
			s.mu.Unlock()
		}
	}
}

func (s *InMemoryStore) removeExpiredLocked() {
	now := s.now()
	for key, it := range s.items {
		if !now.Before(it.expiresAt) {
			delete(s.items, key)
		}
	}
}

// evictOldestLocked drops the entry closest to expiry
func (s *InMemoryStore) evictOldestLocked() {
	var (
		victim string
		oldest time.Time
	)
	for key, it := range s.items {
		if victim == "" || it.expiresAt.Before(oldest) {
			victim, oldest = key, it.expiresAt
		}
	}
	delete(s.items, victim)
}

var _ Store = (*InMemoryStore)(nil)

package auth

import (
	"context"
	"sync"
	"time"
)

// JwtBlacklistStore keeps revoked access tokens until they expire.
type JwtBlacklistStore interface {
	// IsBlacklisted checks if the given token is blacklisted.
	IsBlacklisted(token string) (bool, error)
	// AddToBlacklist adds the given token to the blacklist until exp.
	AddToBlacklist(token string, exp time.Time) error
}

// InMemoryBlacklistStore is a JwtBlacklistStore living in process memory.
type InMemoryBlacklistStore struct {
	blacklist map[string]time.Time
	mu        sync.RWMutex
}

// NewInMemoryBlacklistStore returns an empty store. Call RunCleanup to evict
// expired entries in the background.
func NewInMemoryBlacklistStore() *InMemoryBlacklistStore {
	return &InMemoryBlacklistStore{
		blacklist: make(map[string]time.Time),
	}
}

// RunCleanup evicts expired entries every interval until ctx is done.
func (s *InMemoryBlacklistStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CleanUpExpired()
		}
	}
}

// CleanUpExpired removes every entry whose expiry has passed.
func (s *InMemoryBlacklistStore) CleanUpExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, exp := range s.blacklist {
		if exp.Before(now) {
			delete(s.blacklist, token)
		}
	}
}

// IsBlacklisted implements JwtBlacklistStore.
func (s *InMemoryBlacklistStore) IsBlacklisted(token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.blacklist[token]
	return exists, nil
}

// AddToBlacklist implements JwtBlacklistStore.
func (s *InMemoryBlacklistStore) AddToBlacklist(token string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blacklist[token] = exp
	return nil
}

package memory

import (
	"context"
	"sync"
	"time"
)

// InMemoryTokenBlacklist mirrors the redis-backed blacklist for tests.
type InMemoryTokenBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time // token -> expiry of the blacklist entry
}

func NewTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{tokens: make(map[string]time.Time)}
}

func (m *InMemoryTokenBlacklist) InvalidateToken(_ context.Context, token string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiration <= 0 {
		return nil
	}
	m.tokens[token] = time.Now().Add(expiration)
	return nil
}

func (m *InMemoryTokenBlacklist) IsTokenInvalidated(_ context.Context, token string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	expiry, ok := m.tokens[token]
	if !ok {
		return false, nil
	}
	return time.Now().Before(expiry), nil
}

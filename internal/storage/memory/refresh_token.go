package memory

import (
	"context"
	"sync"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/storage"
)

type InMemoryRefreshTokenManager struct {
	mu     sync.Mutex
	nextID int64
	tokens map[string]models.RefreshToken // keyed by token string
}

func NewRefreshTokenRepository() *InMemoryRefreshTokenManager {
	return &InMemoryRefreshTokenManager{tokens: make(map[string]models.RefreshToken)}
}

func (m *InMemoryRefreshTokenManager) CreateRefreshToken(_ context.Context, token models.RefreshToken) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	token.ID = m.nextID
	m.tokens[token.Token] = token
	return token.ID, nil
}

func (m *InMemoryRefreshTokenManager) GetRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tokens[token]
	if !ok {
		return nil, storage.ErrRefreshTokenNotFound
	}
	return &stored, nil
}

// MarkRefreshTokenUsed performs the check-and-flip under the lock, matching
// the conditional UPDATE of the postgres repository.
func (m *InMemoryRefreshTokenManager) MarkRefreshTokenUsed(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tokens[token]
	if !ok {
		return storage.ErrRefreshTokenNotFound
	}
	if stored.IsUsed || stored.IsRevoked {
		return storage.ErrRefreshTokenUsed
	}
	stored.IsUsed = true
	m.tokens[token] = stored
	return nil
}

func (m *InMemoryRefreshTokenManager) RevokeRefreshToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tokens[token]
	if !ok {
		return storage.ErrRefreshTokenNotFound
	}
	stored.IsRevoked = true
	m.tokens[token] = stored
	return nil
}

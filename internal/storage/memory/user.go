package memory

import (
	"context"
	"sync"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/storage"
)

type InMemoryUserManager struct {
	mu    sync.RWMutex
	users map[string]models.User // keyed by id
}

func NewUserRepository() *InMemoryUserManager {
	return &InMemoryUserManager{users: make(map[string]models.User)}
}

func (m *InMemoryUserManager) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email {
			return nil, storage.ErrEmailExists
		}
	}
	m.users[user.ID] = user
	return &user, nil
}

func (m *InMemoryUserManager) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *InMemoryUserManager) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &user, nil
}

func (m *InMemoryUserManager) GetAllUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

package memory

import (
	"context"
	"sync"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/storage"
)

type userRole struct {
	userID string
	roleID int64
}

type InMemoryRoleManager struct {
	mu          sync.RWMutex
	nextRoleID  int64
	nextClaimID int64
	roles       map[int64]models.Role
	userRoles   map[userRole]struct{}
	claims      []models.UserClaim
}

func NewRoleRepository() *InMemoryRoleManager {
	return &InMemoryRoleManager{
		roles:     make(map[int64]models.Role),
		userRoles: make(map[userRole]struct{}),
	}
}

func (m *InMemoryRoleManager) CreateRole(_ context.Context, name string) (*models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, role := range m.roles {
		if role.Name == name {
			return nil, storage.ErrRoleExists
		}
	}
	m.nextRoleID++
	role := models.Role{ID: m.nextRoleID, Name: name}
	m.roles[role.ID] = role
	return &role, nil
}

func (m *InMemoryRoleManager) GetRoleByName(_ context.Context, name string) (*models.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, role := range m.roles {
		if role.Name == name {
			r := role
			return &r, nil
		}
	}
	return nil, storage.ErrRoleNotFound
}

func (m *InMemoryRoleManager) GetAllRoles(_ context.Context) ([]models.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roles := make([]models.Role, 0, len(m.roles))
	for _, role := range m.roles {
		roles = append(roles, role)
	}
	return roles, nil
}

func (m *InMemoryRoleManager) AddUserToRole(_ context.Context, userID string, roleID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.userRoles[userRole{userID: userID, roleID: roleID}] = struct{}{}
	return nil
}

func (m *InMemoryRoleManager) RemoveUserFromRole(_ context.Context, userID string, roleID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.userRoles, userRole{userID: userID, roleID: roleID})
	return nil
}

func (m *InMemoryRoleManager) GetUserRoles(_ context.Context, userID string) ([]models.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var roles []models.Role
	for assignment := range m.userRoles {
		if assignment.userID == userID {
			roles = append(roles, m.roles[assignment.roleID])
		}
	}
	return roles, nil
}

func (m *InMemoryRoleManager) GetUserClaims(_ context.Context, userID string) ([]models.UserClaim, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var claims []models.UserClaim
	for _, claim := range m.claims {
		if claim.UserID == userID {
			claims = append(claims, claim)
		}
	}
	return claims, nil
}

func (m *InMemoryRoleManager) AddUserClaim(_ context.Context, claim models.UserClaim) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextClaimID++
	claim.ID = m.nextClaimID
	m.claims = append(m.claims, claim)
	return claim.ID, nil
}

package memory

// Storage bundles the in-memory repositories into the storage.Storage
// composite, mirroring the postgres package.
type Storage struct {
	*InMemoryUserManager
	*InMemoryRefreshTokenManager
	*InMemoryTodoManager
	*InMemoryRoleManager
}

func NewStorage() *Storage {
	return &Storage{
		InMemoryUserManager:         NewUserRepository(),
		InMemoryRefreshTokenManager: NewRefreshTokenRepository(),
		InMemoryTodoManager:         NewTodoRepository(),
		InMemoryRoleManager:         NewRoleRepository(),
	}
}

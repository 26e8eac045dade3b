package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/storage"
)

type InMemoryTodoManager struct {
	mu     sync.RWMutex
	nextID int64
	todos  map[int64]models.Todo
}

func NewTodoRepository() *InMemoryTodoManager {
	return &InMemoryTodoManager{todos: make(map[int64]models.Todo)}
}

func (m *InMemoryTodoManager) CreateTodo(_ context.Context, todo models.Todo) (*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	todo.ID = m.nextID
	m.todos[todo.ID] = todo
	return &todo, nil
}

func (m *InMemoryTodoManager) GetTodoByID(_ context.Context, id int64) (*models.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todo, ok := m.todos[id]
	if !ok {
		return nil, storage.ErrTodoNotFound
	}
	return &todo, nil
}

func (m *InMemoryTodoManager) GetAllTodos(_ context.Context) ([]models.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	todos := make([]models.Todo, 0, len(m.todos))
	for _, todo := range m.todos {
		todos = append(todos, todo)
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos, nil
}

func (m *InMemoryTodoManager) UpdateTodo(_ context.Context, todo models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[todo.ID]; !ok {
		return storage.ErrTodoNotFound
	}
	m.todos[todo.ID] = todo
	return nil
}

func (m *InMemoryTodoManager) DeleteTodo(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.todos[id]; !ok {
		return storage.ErrTodoNotFound
	}
	delete(m.todos, id)
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/storage"
)

type TodoRepository struct {
	db storage.DBTX
}

func NewTodoRepository(db storage.DBTX) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) CreateTodo(ctx context.Context, todo models.Todo) (*models.Todo, error) {
	query := `INSERT INTO todos (title, description, done) VALUES ($1, $2, $3)
		RETURNING id, title, description, done`

	var created models.Todo
	err := r.db.QueryRowContext(ctx, query, todo.Title, todo.Description, todo.Done).
		Scan(&created.ID, &created.Title, &created.Description, &created.Done)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return &created, nil
}

func (r *TodoRepository) GetTodoByID(ctx context.Context, id int64) (*models.Todo, error) {
	query := `SELECT id, title, description, done FROM todos WHERE id = $1`

	var todo models.Todo
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Done)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return &todo, nil
}

func (r *TodoRepository) GetAllTodos(ctx context.Context) ([]models.Todo, error) {
	query := `SELECT id, title, description, done FROM todos ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Done); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) UpdateTodo(ctx context.Context, todo models.Todo) error {
	query := `UPDATE todos SET title = $2, description = $3, done = $4 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, todo.ID, todo.Title, todo.Description, todo.Done)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) DeleteTodo(ctx context.Context, id int64) error {
	query := `DELETE FROM todos WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrTodoNotFound
	}
	return nil
}

package controller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/util"
)

// (GET /todo).
func (c *Controller) GetItems(ctx echo.Context) error {
	items, err := c.storage.GetAllTodos(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, items)
}

// (POST /todo).
func (c *Controller) CreateItem(ctx echo.Context) error {
	var item models.Todo
	if err := ctx.Bind(&item); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}
	if item.Title == "" {
		return util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}

	created, err := c.storage.CreateTodo(ctx.Request().Context(), item)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

// (GET /todo/:id).
func (c *Controller) GetItem(ctx echo.Context) error {
	id, err := parseTodoID(ctx)
	if err != nil {
		return err
	}

	item, err := c.storage.GetTodoByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, item)
}

// (PUT /todo/:id).
func (c *Controller) UpdateItem(ctx echo.Context) error {
	id, err := parseTodoID(ctx)
	if err != nil {
		return err
	}

	var item models.Todo
	if err := ctx.Bind(&item); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}
	item.ID = id

	if err := c.storage.UpdateTodo(ctx.Request().Context(), item); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// (DELETE /todo/:id). Responds with the deleted item.
func (c *Controller) DeleteItem(ctx echo.Context) error {
	id, err := parseTodoID(ctx)
	if err != nil {
		return err
	}

	item, err := c.storage.GetTodoByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if err := c.storage.DeleteTodo(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, item)
}

func parseTodoID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, util.NewResponseError(http.StatusBadRequest, "invalid todo id")
	}
	return id, nil
}

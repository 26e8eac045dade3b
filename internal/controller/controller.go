package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rryowa/todoapp/internal/service"
	"github.com/rryowa/todoapp/internal/storage"
)

type Controller struct {
	log          *zap.SugaredLogger
	authService  *service.AuthService
	tokenService *service.TokenService
	storage      storage.Storage
}

func NewController(
	log *zap.SugaredLogger,
	authService *service.AuthService,
	tokenService *service.TokenService,
	store storage.Storage,
) *Controller {
	return &Controller{
		log:          log,
		authService:  authService,
		tokenService: tokenService,
		storage:      store,
	}
}

// (GET /ping).
func (c *Controller) CheckServer(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, "ok")
}

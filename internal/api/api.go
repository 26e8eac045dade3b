package api

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/rryowa/todoapp/internal/controller"
	"github.com/rryowa/todoapp/internal/service"
	"github.com/rryowa/todoapp/internal/util"
)

const (
	shutdownTimeout = 5 * time.Second
)

type API struct {
	server          *echo.Echo
	controller      *controller.Controller
	tokenService    *service.TokenService
	log             *zap.SugaredLogger
	gracefulTimeout time.Duration
	cleanupFuncs    []func()
}

func NewAPI(
	c *controller.Controller,
	ts *service.TokenService,
	sc *util.ServerConfig,
	l *zap.SugaredLogger,
	cleanupFuncs []func(),
) *API {
	e := echo.New()

	e.Server.Addr = sc.ServerAddr
	e.Server.WriteTimeout = sc.WriteTimeout
	e.Server.ReadTimeout = sc.ReadTimeout
	e.Server.IdleTimeout = sc.IdleTimeout
	e.HTTPErrorHandler = ErrorHandler(l)

	return &API{
		server:          e,
		controller:      c,
		tokenService:    ts,
		log:             l,
		gracefulTimeout: sc.GracefulTimeout,
		cleanupFuncs:    cleanupFuncs,
	}
}

func (a *API) Run(ctxBackground context.Context) {
	ctx, stop := signal.NotifyContext(ctxBackground, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.server.Use(echomiddleware.RequestLoggerWithConfig(GetLoggerMiddlewareConfig(a)))
	a.registerRoutes()

	a.ListenGracefulShutdown(ctx)
}

func (a *API) registerRoutes() {
	a.server.GET("/ping", a.controller.CheckServer)

	bearer := BearerAuthMiddleware(a.tokenService)

	auth := a.server.Group("/auth")
	auth.POST("/register", a.controller.Register)
	auth.POST("/login", a.controller.Login)
	auth.POST("/refreshtoken", a.controller.RefreshToken)
	auth.POST("/logout", a.controller.Logout, bearer)

	todo := a.server.Group("/todo", bearer)
	todo.GET("", a.controller.GetItems)
	todo.POST("", a.controller.CreateItem)
	todo.GET("/:id", a.controller.GetItem)
	todo.PUT("/:id", a.controller.UpdateItem)
	todo.DELETE("/:id", a.controller.DeleteItem)

	setup := a.server.Group("/setup", bearer)
	setup.GET("/roles", a.controller.GetAllRoles)
	setup.POST("/roles", a.controller.CreateRole)
	setup.GET("/users", a.controller.GetAllUsers)
	setup.GET("/users/roles", a.controller.GetUserRoles)
	setup.POST("/users/roles", a.controller.AddUserToRole)
	setup.DELETE("/users/roles", a.controller.RemoveUserFromRole)

	claims := a.server.Group("/claims", bearer)
	claims.GET("", a.controller.GetAllClaims)
	claims.POST("", a.controller.AddClaimsToUser)
}

func (a *API) ListenGracefulShutdown(ctx context.Context) {
	go func() {
		err := a.server.Start(a.server.Server.Addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()
	a.log.Infof("Listening on: %s", a.server.Server.Addr)

	<-ctx.Done()
	a.log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Errorf("shutdown: %v", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	longShutdown := make(chan struct{}, 1)

	go func() {
		time.Sleep(a.gracefulTimeout)
		longShutdown <- struct{}{}
	}()

	select {
	case <-shutdownCtx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			a.log.Info("server shutdown completed")
		} else {
			a.log.Errorf("server shutdown: %v", ctx.Err())
		}
	case <-longShutdown:
		a.log.Infof("finished")
	}
}

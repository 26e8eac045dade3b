package controller

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/util"
)

// (POST /auth/register).
func (c *Controller) Register(ctx echo.Context) error {
	var req models.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") || req.Username == "" || req.Password == "" {
		return util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}

	pair, err := c.authService.Register(ctx.Request().Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, models.AuthResponse{
		Success:      true,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// (POST /auth/login).
func (c *Controller) Login(ctx echo.Context) error {
	var req models.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}

	pair, err := c.authService.Login(ctx.Request().Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, models.AuthResponse{
		Success:      true,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// (POST /auth/refreshtoken).
func (c *Controller) RefreshToken(ctx echo.Context) error {
	var req models.TokenRequest
	if err := ctx.Bind(&req); err != nil {
		return util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.RefreshToken == "" {
		return util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}

	pair, err := c.tokenService.RotateTokenPair(ctx.Request().Context(), req.Token, req.RefreshToken)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, models.AuthResponse{
		Success:      true,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// (POST /auth/logout). Bearer-protected; the middleware stashes the raw token.
func (c *Controller) Logout(ctx echo.Context) error {
	accessToken, _ := ctx.Get(models.MwTokenKey).(string)

	var req models.TokenRequest
	_ = ctx.Bind(&req) // refresh token in the body is optional

	if err := c.tokenService.InvalidateAccessToken(ctx.Request().Context(), accessToken, req.RefreshToken); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, models.AuthResponse{Success: true})
}

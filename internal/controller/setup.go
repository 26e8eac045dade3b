package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/storage"
	"github.com/rryowa/todoapp/internal/util"
)

type roleRequest struct {
	Name string `json:"name"`
}

type userRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type claimRequest struct {
	Email      string `json:"email"`
	ClaimName  string `json:"claimName"`
	ClaimValue string `json:"claimValue"`
}

// (GET /setup/roles).
func (c *Controller) GetAllRoles(ctx echo.Context) error {
	roles, err := c.storage.GetAllRoles(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, roles)
}

// (POST /setup/roles).
func (c *Controller) CreateRole(ctx echo.Context) error {
	var req roleRequest
	if err := ctx.Bind(&req); err != nil || req.Name == "" {
		return util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}

	role, err := c.storage.CreateRole(ctx.Request().Context(), req.Name)
	if err != nil {
		if errors.Is(err, storage.ErrRoleExists) {
			return util.NewResponseError(http.StatusBadRequest, "role already exists")
		}
		return err
	}
	return ctx.JSON(http.StatusOK, role)
}

// (GET /setup/users).
func (c *Controller) GetAllUsers(ctx echo.Context) error {
	users, err := c.storage.GetAllUsers(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, users)
}

// (POST /setup/users/roles).
func (c *Controller) AddUserToRole(ctx echo.Context) error {
	user, role, err := c.resolveUserAndRole(ctx)
	if err != nil {
		return err
	}

	if err := c.storage.AddUserToRole(ctx.Request().Context(), user.ID, role.ID); err != nil {
		return err
	}
	c.log.Infow("user added to role", "userID", user.ID, "role", role.Name)
	return ctx.JSON(http.StatusOK, map[string]string{"result": "user added to role " + role.Name})
}

// (DELETE /setup/users/roles).
func (c *Controller) RemoveUserFromRole(ctx echo.Context) error {
	user, role, err := c.resolveUserAndRole(ctx)
	if err != nil {
		return err
	}

	if err := c.storage.RemoveUserFromRole(ctx.Request().Context(), user.ID, role.ID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, map[string]string{"result": "user removed from role " + role.Name})
}

// (GET /setup/users/roles?email=).
func (c *Controller) GetUserRoles(ctx echo.Context) error {
	user, err := c.userByEmailParam(ctx)
	if err != nil {
		return err
	}

	roles, err := c.storage.GetUserRoles(ctx.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, roles)
}

// (GET /claims?email=).
func (c *Controller) GetAllClaims(ctx echo.Context) error {
	user, err := c.userByEmailParam(ctx)
	if err != nil {
		return err
	}

	claims, err := c.storage.GetUserClaims(ctx.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, claims)
}

// (POST /claims).
func (c *Controller) AddClaimsToUser(ctx echo.Context) error {
	var req claimRequest
	if err := ctx.Bind(&req); err != nil || req.Email == "" || req.ClaimName == "" {
		return util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}

	user, err := c.storage.GetUserByEmail(ctx.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return util.NewResponseError(http.StatusBadRequest, "user does not exist")
		}
		return err
	}

	id, err := c.storage.AddUserClaim(ctx.Request().Context(), models.UserClaim{
		UserID: user.ID,
		Name:   req.ClaimName,
		Value:  req.ClaimValue,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, models.UserClaim{
		ID:     id,
		UserID: user.ID,
		Name:   req.ClaimName,
		Value:  req.ClaimValue,
	})
}

func (c *Controller) resolveUserAndRole(ctx echo.Context) (*models.User, *models.Role, error) {
	var req userRoleRequest
	if err := ctx.Bind(&req); err != nil || req.Email == "" || req.Role == "" {
		return nil, nil, util.NewResponseError(http.StatusBadRequest, "invalid payload")
	}

	user, err := c.storage.GetUserByEmail(ctx.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, nil, util.NewResponseError(http.StatusBadRequest, "user does not exist")
		}
		return nil, nil, err
	}

	role, err := c.storage.GetRoleByName(ctx.Request().Context(), req.Role)
	if err != nil {
		if errors.Is(err, storage.ErrRoleNotFound) {
			return nil, nil, util.NewResponseError(http.StatusBadRequest, "role does not exist")
		}
		return nil, nil, err
	}

	return user, role, nil
}

func (c *Controller) userByEmailParam(ctx echo.Context) (*models.User, error) {
	email := ctx.QueryParam("email")
	if email == "" {
		return nil, util.NewResponseError(http.StatusBadRequest, "email is required")
	}

	user, err := c.storage.GetUserByEmail(ctx.Request().Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, util.NewResponseError(http.StatusBadRequest, "user does not exist")
		}
		return nil, err
	}
	return user, nil
}

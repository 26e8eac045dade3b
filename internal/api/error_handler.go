package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rryowa/todoapp/internal/models"
	"github.com/rryowa/todoapp/internal/service"
	"github.com/rryowa/todoapp/internal/storage"
	"github.com/rryowa/todoapp/internal/util"
)

// ErrorHandler turns the service-layer sentinel errors into the structured
// {success:false, errors:[...]} responses of the auth surface and plain
// {error:...} bodies elsewhere. Anything unrecognized is a 500 and the
// details stay in the log.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if status, ok := authRejectionStatus(err); ok {
			writeJSON(log, c, status, models.AuthResponse{
				Success: false,
				Errors:  []string{err.Error()},
			})
			return
		}

		var respErr util.ResponseError
		if errors.As(err, &respErr) {
			writeJSON(log, c, respErr.Status, models.AuthResponse{
				Success: false,
				Errors:  []string{respErr.Msg},
			})
			return
		}

		if errors.Is(err, storage.ErrTodoNotFound) {
			writeJSON(log, c, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code == http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			writeJSON(log, c, he.Code, map[string]string{"error": msg})
			return
		}

		log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		writeJSON(log, c, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func authRejectionStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrTokenInvalid),
		errors.Is(err, service.ErrTokenNotYetExpired),
		errors.Is(err, service.ErrTokenNotFound),
		errors.Is(err, service.ErrTokenAlreadyUsed),
		errors.Is(err, service.ErrTokenRevoked),
		errors.Is(err, service.ErrTokenMismatch):
		return http.StatusBadRequest, true
	}
	return 0, false
}

func writeJSON(log *zap.SugaredLogger, c echo.Context, status int, body interface{}) {
	if err := c.JSON(status, body); err != nil {
		log.Errorw("failed to write json response", "error", err)
	}
}

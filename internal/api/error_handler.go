package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/uploadgate/upload-gateway/internal/api/handler"
	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

// NewHTTPErrorHandler maps domain errors to status codes and writes the
// {"success": false, "message": "..."} envelope. Unexpected errors are logged
// and reported as a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.ErrorResponse{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, clientMessage(err, "invalid request")
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "username or email already in use"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrTokenMissing):
		return http.StatusUnauthorized, clientMessage(err, "access token not provided")
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusForbidden, "invalid token"
	case errors.Is(err, domain.ErrUploadRejected):
		return http.StatusBadRequest, clientMessage(err, "upload rejected")
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// clientMessage returns the message of a domain.DetailError, or fallback.
func clientMessage(err error, fallback string) string {
	var de *domain.DetailError
	if errors.As(err, &de) && de.Msg != "" {
		return de.Msg
	}
	return fallback
}

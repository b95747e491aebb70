package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

// RequireAdmin lets through only callers whose token username is listed.
// It must run after Auth.
func RequireAdmin(usernames ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		allowed[u] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return domain.ErrTokenMissing
			}
			if _, ok := allowed[claims.Username]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/uploadgate/upload-gateway/internal/api/middleware"
	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

// currentClaims returns the claims stored by the Auth middleware. A route
// mounted without the middleware gets ErrTokenMissing.
func currentClaims(c echo.Context) (*domain.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, domain.ErrTokenMissing
	}
	return claims, nil
}

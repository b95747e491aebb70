package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/uploadgate/upload-gateway/internal/api/metrics"
	"github.com/uploadgate/upload-gateway/internal/core/domain"
	"github.com/uploadgate/upload-gateway/internal/core/ports"
)

// ClaimsKey is the echo.Context key holding *domain.Claims.
const ClaimsKey = "claims"

// Auth verifies the bearer token and stores its claims on the context.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.Reject(domain.ErrTokenMissing, "access token not provided")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.Reject(domain.ErrTokenMissing, "invalid token format, use: Bearer <token>")
			}

			claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
				} else {
					metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				}
				return err
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c echo.Context) (*domain.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}

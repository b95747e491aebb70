package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

func newAdminContext(claims *domain.Claims) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users", nil), httptest.NewRecorder())
	if claims != nil {
		c.Set(ClaimsKey, claims)
	}
	return c
}

func TestRequireAdmin_Allows(t *testing.T) {
	c := newAdminContext(&domain.Claims{Username: "root"})

	called := false
	err := RequireAdmin("root", "ops")(func(c echo.Context) error {
		called = true
		return nil
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRequireAdmin_Forbids(t *testing.T) {
	c := newAdminContext(&domain.Claims{Username: "alice"})

	err := RequireAdmin("root")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireAdmin_WithoutClaims(t *testing.T) {
	c := newAdminContext(nil)

	err := RequireAdmin("root")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uploadgate/upload-gateway/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// VerifyToken echoes the identity carried by a valid token.
//
// @Summary      Verify a bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  verifyTokenResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /verify-token [get]
func (h *UserHandler) VerifyToken(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyTokenResponse{
		Success: true,
		Message: "token is valid",
		User: publicUser{
			ID:       claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
		},
	})
}

// Profile returns the stored record of the token owner.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Profile(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Success: true,
		User:    toProfileUser(user),
	})
}

// List returns every stored user including password hashes.
//
// @Summary      List users with password hashes
// @Description  Exposes stored bcrypt hashes. Public unless USERS_REQUIRE_ADMIN is set.
// @Tags         users
// @Produce      json
// @Success      200  {object}  listUsersResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.ListWithHash(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Success: true,
		Message: "full user list with password hashes",
		Total:   len(users),
		Users:   toHashedUsers(users),
	})
}

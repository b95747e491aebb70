package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uploadgate/upload-gateway/internal/api/metrics"
	"github.com/uploadgate/upload-gateway/internal/core/domain"
	"github.com/uploadgate/upload-gateway/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		countAuth("register", err)
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	countAuth("register", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Success: true,
		Message: "user registered successfully",
		User:    toProfileUser(user),
	})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		countAuth("login", err)
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	countAuth("login", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Message: "login successful",
		Token:   token,
		User:    toPublicUser(user),
	})
}

// bindAndValidate decodes the JSON body into req and runs the registered
// validator. Decode failures are reported as validation errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Reject(domain.ErrValidation, "invalid request body")
	}
	return c.Validate(req)
}

func countAuth(operation string, err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrInvalidCredentials):
		result = metrics.ResultRejected
	default:
		result = metrics.ResultError
	}
	metrics.AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}

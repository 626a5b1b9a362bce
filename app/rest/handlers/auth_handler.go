package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"portal-service/app/domain"
	"portal-service/app/port"
	"portal-service/app/rest/middleware"
	"portal-service/app/utils/validator"
)

// AuthHandler handles the token based authentication endpoints
type AuthHandler struct {
	authUsecase port.AuthUsecase
	validator   *validator.Validator
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase port.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Login exchanges an email and password for a session token
// @Summary Log in
// @Tags authentication
// @Accept json
// @Produce json
// @Param body body domain.Credentials true "Login credentials"
// @Success 200 {object} domain.AuthSession
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var creds domain.Credentials
	if err := bindAndValidate(c, h.validator, &creds); err != nil {
		return respondError(c, h.logger, err)
	}

	session, err := h.authUsecase.Login(c.Request().Context(), creds)
	if err != nil {
		h.logger.Warn("login failed", "email", creds.Email, "error", err)
		return respondError(c, h.logger, err)
	}

	h.logger.Info("login completed", "email", creds.Email, "role", session.User.Role)
	return c.JSON(http.StatusOK, session)
}

// Signup registers a citizen account and signs it in
// @Summary Sign up
// @Tags authentication
// @Accept json
// @Produce json
// @Param body body domain.SignupRequest true "Registration details"
// @Success 201 {object} domain.AuthSession
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /v1/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req domain.SignupRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	session, err := h.authUsecase.Signup(c.Request().Context(), req)
	if err != nil {
		h.logger.Warn("signup failed", "email", req.Email, "error", err)
		return respondError(c, h.logger, err)
	}

	h.logger.Info("signup completed", "email", req.Email)
	return c.JSON(http.StatusCreated, session)
}

// Logout revokes the caller's session. It always succeeds once the caller is authenticated.
// @Summary Log out
// @Tags authentication
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		return respondError(c, h.logger, domain.ErrUnauthorized)
	}

	h.authUsecase.Logout(c.Request().Context(), session.Token)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the profile and roles of the signed-in account
// @Summary Current profile
// @Tags authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Profile
// @Failure 401 {object} ErrorResponse
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		return respondError(c, h.logger, domain.ErrUnauthorized)
	}

	profile, err := h.authUsecase.Profile(c.Request().Context(), session.Account)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, profile)
}

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"portal-service/app/domain"
	"portal-service/app/port"
	apperrors "portal-service/app/utils/errors"
)

const (
	// SessionContextKey holds the *domain.SessionContext of an authenticated request
	SessionContextKey = "session"

	sessionTokenHeader = "X-Session-Token"
)

// AuthMiddleware provides authentication middleware
type AuthMiddleware struct {
	authUsecase port.AuthUsecase
	logger      *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authUsecase port.AuthUsecase, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authUsecase: authUsecase,
		logger:      logger,
	}
}

// RequireAuth rejects requests without a live session token
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractSessionToken(c.Request().Header.Get(echo.HeaderAuthorization), c.Request().Header.Get(sessionTokenHeader))
			if token == "" {
				appErr := apperrors.FromDomain(domain.ErrMissingToken)
				return c.JSON(appErr.StatusCode, appErr.Response())
			}

			sessionCtx, err := m.authUsecase.Authenticate(c.Request().Context(), token)
			if err != nil {
				m.logger.Warn("session validation failed",
					"path", c.Path(),
					"error", err)

				// An unreachable identity platform is not the caller's fault.
				appErr := apperrors.FromDomain(err)
				if !errors.Is(err, domain.ErrIdentityProvider) && appErr.StatusCode != http.StatusUnauthorized {
					appErr = apperrors.NewUnauthorized("invalid session")
				}
				return c.JSON(appErr.StatusCode, appErr.Response())
			}

			c.Set(SessionContextKey, sessionCtx)
			return next(c)
		}
	}
}

// OptionalAuth attaches the session when a valid token is present and never rejects
func (m *AuthMiddleware) OptionalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractSessionToken(c.Request().Header.Get(echo.HeaderAuthorization), c.Request().Header.Get(sessionTokenHeader))
			if token == "" {
				return next(c)
			}

			sessionCtx, err := m.authUsecase.Authenticate(c.Request().Context(), token)
			if err != nil {
				m.logger.Debug("optional auth failed", "error", err)
				return next(c)
			}

			c.Set(SessionContextKey, sessionCtx)
			return next(c)
		}
	}
}

// SessionFromContext returns the session attached by RequireAuth or OptionalAuth
func SessionFromContext(c echo.Context) (*domain.SessionContext, bool) {
	sessionCtx, ok := c.Get(SessionContextKey).(*domain.SessionContext)
	return sessionCtx, ok && sessionCtx != nil
}

// ExtractSessionToken reads the token from an Authorization header, falling back to X-Session-Token.
// Both "Bearer <token>" and a raw token are accepted in Authorization.
func ExtractSessionToken(authorization, sessionToken string) string {
	if auth := strings.TrimSpace(authorization); auth != "" {
		if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
			return strings.TrimSpace(auth[7:])
		}
		return auth
	}
	return strings.TrimSpace(sessionToken)
}

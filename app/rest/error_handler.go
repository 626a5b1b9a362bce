package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "portal-service/app/utils/errors"
)

// NewHTTPErrorHandler renders errors that escape handlers, such as unknown routes,
// oversized bodies, and recovered panics, in the same JSON shape handlers use.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := toAppError(err)
		if appErr.StatusCode >= http.StatusInternalServerError {
			logger.Error("unhandled request error",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(appErr.StatusCode)
		} else {
			writeErr = c.JSON(appErr.StatusCode, appErr.Response())
		}
		if writeErr != nil {
			logger.Error("failed to write error response", "error", writeErr)
		}
	}
}

func toAppError(err error) *apperrors.AppError {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return apperrors.FromDomain(err)
	}

	message := http.StatusText(he.Code)
	if msg, ok := he.Message.(string); ok && msg != "" {
		message = msg
	}

	var appErr *apperrors.AppError
	switch he.Code {
	case http.StatusNotFound:
		appErr = apperrors.New(apperrors.ErrCodeNotFound, message)
	case http.StatusMethodNotAllowed:
		appErr = apperrors.New(apperrors.ErrCodeMethodNotAllowed, message)
	case http.StatusUnauthorized:
		appErr = apperrors.New(apperrors.ErrCodeUnauthorized, message)
	case http.StatusTooManyRequests:
		appErr = apperrors.New(apperrors.ErrCodeRateLimitExceeded, message)
	case http.StatusInternalServerError:
		appErr = apperrors.NewInternalError(err)
	default:
		appErr = apperrors.New(apperrors.ErrCodeBadRequest, message)
	}
	appErr.StatusCode = he.Code
	return appErr.WithCause(err)
}

package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"portal-service/app/utils/logger"
)

// RequestLogging logs one line per request after it has been handled
func RequestLogging(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let echo write the response so the logged status is final.
				c.Error(err)
			}

			req := c.Request()
			reqLogger := logger.WithRequest(log, c.Response().Header().Get(echo.HeaderXRequestID), req.Method, req.URL.Path)

			attrs := []any{
				"status", c.Response().Status,
				"ip", c.RealIP(),
				"size", c.Response().Size,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if sessionCtx, ok := SessionFromContext(c); ok {
				attrs = append(attrs, "account", sessionCtx.Account.Email)
			}

			switch status := c.Response().Status; {
			case status >= 500:
				reqLogger.Error("request processed", attrs...)
			case status >= 400:
				reqLogger.Warn("request processed", attrs...)
			default:
				reqLogger.Info("request processed", attrs...)
			}

			return nil
		}
	}
}

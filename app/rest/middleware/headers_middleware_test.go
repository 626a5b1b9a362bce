package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-service/app/utils/logger"
)

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()

	err := SecurityHeaders()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(e.NewContext(req, rec))
	require.NoError(t, err)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	e := echo.New()
	e.Use(NewCORSMiddleware(DefaultCORSConfig([]string{"https://dashboard.example.gov"})))
	e.POST("/v1/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	tests := []struct {
		origin string
		want   string
	}{
		{origin: "https://dashboard.example.gov", want: "https://dashboard.example.gov"},
		{origin: "https://evil.example.com", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/v1/auth/login", nil)
			req.Header.Set(echo.HeaderOrigin, tt.origin)
			req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		})
	}
}

func TestDefaultCORSConfig_FallsBackToLocalDashboard(t *testing.T) {
	cfg := DefaultCORSConfig(nil)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowHeaders, sessionTokenHeader)
	assert.False(t, cfg.AllowCredentials)
}

func TestRequestLogging_RendersHandlerErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()

	err := RequestLogging(logger.Discard())(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	})(e.NewContext(req, rec))

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"portal-service/app/domain"
	mock_port "portal-service/app/mocks"
	custommw "portal-service/app/rest/middleware"
	apperrors "portal-service/app/utils/errors"
	"portal-service/app/utils/logger"
)

type testRouter struct {
	e    *echo.Echo
	auth *mock_port.MockAuthUsecase
	seed *mock_port.MockSeedUsecase
}

func newTestRouter(t *testing.T, withSeeder bool) testRouter {
	t.Helper()
	ctrl := gomock.NewController(t)

	limiter := custommw.NewRateLimiter()
	t.Cleanup(limiter.Stop)

	tr := testRouter{
		auth: mock_port.NewMockAuthUsecase(ctrl),
		seed: mock_port.NewMockSeedUsecase(ctrl),
	}

	cfg := RouterConfig{
		Logger:      logger.Discard(),
		AuthUsecase: tr.auth,
		RateLimiter: limiter,
	}
	if withSeeder {
		cfg.SeedUsecase = tr.seed
	}
	tr.e = NewRouter(cfg)
	return tr
}

func (tr testRouter) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	tr.e.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorCode {
	t.Helper()
	var body apperrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestRouter_Health(t *testing.T) {
	tr := newTestRouter(t, false)

	for _, path := range []string{"/v1/health", "/v1/ready", "/v1/live"} {
		rec := tr.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID), path)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), path)
	}
}

func TestRouter_SeedEndpoint(t *testing.T) {
	t.Run("non-post methods get 405", func(t *testing.T) {
		tr := newTestRouter(t, true)

		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			rec := tr.do(method, "/v1/admin/seed-demo-users", "", nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
			assert.Equal(t, apperrors.ErrCodeMethodNotAllowed, errorCode(t, rec), method)
		}
	})

	t.Run("unconfigured seeder answers 500", func(t *testing.T) {
		tr := newTestRouter(t, false)

		rec := tr.do(http.MethodPost, "/v1/admin/seed-demo-users", "", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, apperrors.ErrCodeConfigError, errorCode(t, rec))
	})

	t.Run("post seeds", func(t *testing.T) {
		tr := newTestRouter(t, true)
		tr.seed.EXPECT().SeedDemoAccounts(gomock.Any()).Return([]domain.SeedResult{
			{Email: "admin@portal.gov.in", Created: true, RoleAssigned: true, Status: domain.SeedStatusOK},
		})

		rec := tr.do(http.MethodPost, "/v1/admin/seed-demo-users", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"ok":true,"results":[{"email":"admin@portal.gov.in","created":true,"role_assigned":true,"status":"ok"}]}`,
			rec.Body.String())
	})
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	tr := newTestRouter(t, false)

	rec := tr.do(http.MethodGet, "/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperrors.ErrCodeMissingToken, errorCode(t, rec))

	account := domain.Account{ID: "3f1c3c1e-0b6f-4c38-9b70-6a3f0ad1c001", Email: "teacher@portal.gov.in"}
	tr.auth.EXPECT().Authenticate(gomock.Any(), "tok").Return(&domain.SessionContext{Token: "tok", Account: account}, nil)
	tr.auth.EXPECT().Profile(gomock.Any(), account).Return(domain.NewProfile(account, []domain.Role{domain.RoleTeacher}), nil)

	rec = tr.do(http.MethodGet, "/v1/auth/me", "", map[string]string{echo.HeaderAuthorization: "Bearer tok"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"teacher"`)
}

func TestRouter_LoginIsRateLimited(t *testing.T) {
	tr := newTestRouter(t, false)
	tr.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, domain.ErrInvalidCredentials).
		Times(custommw.LoginRatePolicy.Burst)

	body := `{"email":"admin@portal.gov.in","password":"wrong"}`
	headers := map[string]string{echo.HeaderXRealIP: "203.0.113.7"}

	for i := 0; i < custommw.LoginRatePolicy.Burst; i++ {
		rec := tr.do(http.MethodPost, "/v1/auth/login", body, headers)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := tr.do(http.MethodPost, "/v1/auth/login", body, headers)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	tr := newTestRouter(t, false)

	rec := tr.do(http.MethodGet, "/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperrors.ErrCodeNotFound, errorCode(t, rec))
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-service/app/domain"
)

type failingStore struct {
	MemoryTokenStore
}

func (s *failingStore) Token() (string, error) {
	return "", errors.New("disk on fire")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, handler http.Handler, store TokenStore) (*Client, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	c, err := New(Config{
		BaseURL: srv.URL,
		Logger:  slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}, store)
	require.NoError(t, err)
	return c, &logs
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		store   TokenStore
		wantErr bool
	}{
		{name: "valid", baseURL: "http://localhost:9500", store: NewMemoryTokenStore()},
		{name: "missing store", baseURL: "http://localhost:9500", wantErr: true},
		{name: "no scheme", baseURL: "localhost:9500", store: NewMemoryTokenStore(), wantErr: true},
		{name: "ftp", baseURL: "ftp://portal", store: NewMemoryTokenStore(), wantErr: true},
		{name: "no host", baseURL: "http://", store: NewMemoryTokenStore(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{BaseURL: tt.baseURL}, tt.store)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	t.Run("with token", func(t *testing.T) {
		store := NewMemoryTokenStore()
		require.NoError(t, store.SetToken("ory_st_abc"))
		c, _ := newTestClient(t, handler, store)

		require.NoError(t, c.Do(context.Background(), http.MethodGet, "/v1/health", nil, nil))
		assert.Equal(t, "Bearer ory_st_abc", gotAuth.Load())
	})

	t.Run("without token", func(t *testing.T) {
		c, _ := newTestClient(t, handler, NewMemoryTokenStore())

		require.NoError(t, c.Do(context.Background(), http.MethodGet, "/v1/health", nil, nil))
		assert.Equal(t, "", gotAuth.Load())
	})

	t.Run("unreadable store sends unauthenticated", func(t *testing.T) {
		c, logs := newTestClient(t, handler, &failingStore{})

		require.NoError(t, c.Do(context.Background(), http.MethodGet, "/v1/health", nil, nil))
		assert.Equal(t, "", gotAuth.Load())
		assert.Contains(t, logs.String(), "sending request unauthenticated")
	})
}

func TestClient_LogsUnauthorizedResponses(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required", "code": "UNAUTHORIZED"})
	})

	store := NewMemoryTokenStore()
	require.NoError(t, store.SetToken("expired"))
	c, logs := newTestClient(t, handler, store)

	err := c.Do(context.Background(), http.MethodGet, "/v1/auth/me", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)

	assert.Contains(t, logs.String(), "request unauthorized")
	assert.Equal(t, int32(1), calls.Load(), "401 is never retried")

	token, _ := store.Token()
	assert.Equal(t, "expired", token, "plain requests leave the token alone")
}

func TestClient_LoginStoresToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode login body: %v", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
			return
		}
		if creds.Password != domain.DemoDefaultPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid email or password", "code": "INVALID_CREDENTIALS"})
			return
		}
		writeJSON(w, http.StatusOK, domain.AuthSession{
			Token: "ory_st_new",
			User:  domain.NewProfile(domain.Account{Email: creds.Email}, []domain.Role{domain.RoleAdmin}),
		})
	})

	store := NewMemoryTokenStore()
	c, _ := newTestClient(t, mux, store)

	session, err := c.Login(context.Background(), "admin@portal.gov.in", domain.DemoDefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, session.User.Role)

	token, _ := store.Token()
	assert.Equal(t, "ory_st_new", token)

	_, err = c.Login(context.Background(), "admin@portal.gov.in", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	token, _ = store.Token()
	assert.Equal(t, "ory_st_new", token, "failed login keeps the previous session")
}

func TestClient_Signup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "an account with this email already exists", "code": "ACCOUNT_EXISTS"})
	})

	c, _ := newTestClient(t, mux, NewMemoryTokenStore())

	_, err := c.Signup(context.Background(), domain.SignupRequest{Email: "a@b.c", Password: "Str0ng!Pass", Name: "A"})
	assert.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestClient_Logout(t *testing.T) {
	t.Run("server failure is ignored", func(t *testing.T) {
		var gotAuth atomic.Value
		mux := http.NewServeMux()
		mux.HandleFunc("POST /v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			gotAuth.Store(r.Header.Get("Authorization"))
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream down"})
		})

		store := NewMemoryTokenStore()
		require.NoError(t, store.SetToken("ory_st_abc"))
		c, _ := newTestClient(t, mux, store)

		require.NoError(t, c.Logout(context.Background()))
		assert.Equal(t, "Bearer ory_st_abc", gotAuth.Load())

		token, _ := store.Token()
		assert.Empty(t, token)
	})

	t.Run("anonymous logout makes no call", func(t *testing.T) {
		var calls atomic.Int32
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}), NewMemoryTokenStore())

		require.NoError(t, c.Logout(context.Background()))
		assert.Zero(t, calls.Load())
	})
}

func TestClient_RestoreSession(t *testing.T) {
	profile := domain.NewProfile(domain.Account{Email: "teacher@portal.gov.in"}, []domain.Role{domain.RoleTeacher})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required", "code": "UNAUTHORIZED"})
			return
		}
		writeJSON(w, http.StatusOK, profile)
	})

	t.Run("valid token", func(t *testing.T) {
		store := NewMemoryTokenStore()
		require.NoError(t, store.SetToken("good"))
		c, _ := newTestClient(t, mux, store)

		got, err := c.RestoreSession(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.RoleTeacher, got.Role)
	})

	t.Run("rejected token is cleared", func(t *testing.T) {
		store := NewMemoryTokenStore()
		require.NoError(t, store.SetToken("stale"))
		c, _ := newTestClient(t, mux, store)

		_, err := c.RestoreSession(context.Background())
		assert.ErrorIs(t, err, ErrNoSession)

		token, _ := store.Token()
		assert.Empty(t, token)
	})

	t.Run("no token", func(t *testing.T) {
		c, _ := newTestClient(t, mux, NewMemoryTokenStore())

		_, err := c.RestoreSession(context.Background())
		assert.ErrorIs(t, err, ErrNoSession)
	})
}

func TestClient_Seed(t *testing.T) {
	results := []domain.SeedResult{
		{Email: "admin@portal.gov.in", Created: true, RoleAssigned: true, Status: domain.SeedStatusOK},
		{Email: "block@portal.gov.in", Status: domain.SeedStatusErrorNoUser, Error: "identity service error"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/admin/seed-demo-users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.SeedReport{OK: true, Results: results})
	})
	mux.HandleFunc("GET /v1/admin/seed-demo-users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method GET not allowed"})
	})

	c, _ := newTestClient(t, mux, NewMemoryTokenStore())

	got, err := c.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, results, got)
}

func TestAPIError(t *testing.T) {
	err := &APIError{Status: http.StatusInternalServerError, Code: "CONFIG_ERROR", Message: "Server misconfigured", Details: "x"}
	assert.Equal(t, "500 Server misconfigured [CONFIG_ERROR]: x", err.Error())
	assert.Nil(t, err.Unwrap())
}

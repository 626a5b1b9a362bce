package kratos

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-service/app/domain"
)

func TestIdentityAdapter_CreateIdentity(t *testing.T) {
	t.Run("sends password credential, verified address and admin token", func(t *testing.T) {
		var captured map[string]any
		var authHeader string

		mux := http.NewServeMux()
		mux.HandleFunc("POST /admin/identities", func(w http.ResponseWriter, r *http.Request) {
			authHeader = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			writeJSON(t, w, http.StatusCreated, identityJSON("3f1c2e5a-6c52-4e47-8d3c-1b2a3c4d5e6f", "admin@demo.portal.gov.in", "Portal Administrator"))
		})
		adapter := newTestAdapter(t, mux, true)

		spec := domain.DemoAccountSpec{Email: "admin@demo.portal.gov.in", Name: "Portal Administrator", Role: domain.RoleAdmin, Department: "Directorate"}
		account, err := adapter.CreateIdentity(context.Background(), domain.NewAccountFromSpec(spec, domain.DemoDefaultPassword))
		require.NoError(t, err)

		assert.Equal(t, "3f1c2e5a-6c52-4e47-8d3c-1b2a3c4d5e6f", account.ID)
		assert.Equal(t, "admin@demo.portal.gov.in", account.Email)
		assert.Equal(t, "Bearer ory_pat_test", authHeader)

		assert.Equal(t, "default", captured["schema_id"])
		traits := captured["traits"].(map[string]any)
		assert.Equal(t, "Portal Administrator", traits["name"])
		assert.Equal(t, "Directorate", traits["department"])
		assert.NotContains(t, traits, "designation")

		password := captured["credentials"].(map[string]any)["password"].(map[string]any)["config"].(map[string]any)["password"]
		assert.Equal(t, domain.DemoDefaultPassword, password)

		addresses := captured["verifiable_addresses"].([]any)
		require.Len(t, addresses, 1)
		addr := addresses[0].(map[string]any)
		assert.Equal(t, true, addr["verified"])
		assert.Equal(t, "email", addr["via"])
	})

	t.Run("conflict maps to account exists", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /admin/identities", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusConflict, map[string]any{
				"error": map[string]any{"code": 409, "status": "Conflict", "reason": "This identity conflicts with another identity that already exists."},
			})
		})
		adapter := newTestAdapter(t, mux, true)

		_, err := adapter.CreateIdentity(context.Background(), domain.NewAccount{Email: "admin@demo.portal.gov.in", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrAccountExists)
		assert.ErrorContains(t, err, "conflicts with another identity")
	})

	t.Run("server error maps to identity provider error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /admin/identities", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusInternalServerError, map[string]any{
				"error": map[string]any{"code": 500, "message": "database unavailable"},
			})
		})
		adapter := newTestAdapter(t, mux, true)

		_, err := adapter.CreateIdentity(context.Background(), domain.NewAccount{Email: "a@b.in", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrIdentityProvider)
	})

	t.Run("without admin configuration", func(t *testing.T) {
		adapter := newTestAdapter(t, http.NewServeMux(), false)

		_, err := adapter.CreateIdentity(context.Background(), domain.NewAccount{Email: "a@b.in", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrSeedNotConfigured)
	})

	t.Run("invalid input never reaches kratos", func(t *testing.T) {
		adapter := newTestAdapter(t, http.NewServeMux(), true)

		_, err := adapter.CreateIdentity(context.Background(), domain.NewAccount{Email: "nope", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestIdentityAdapter_ListIdentities(t *testing.T) {
	t.Run("follows the next link until exhausted", func(t *testing.T) {
		var tokens []string

		mux := http.NewServeMux()
		mux.HandleFunc("GET /admin/identities", func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get("page_token")
			tokens = append(tokens, token)
			assert.Equal(t, "250", r.URL.Query().Get("page_size"))

			switch token {
			case "":
				w.Header().Set("Link", linkNext("/admin/identities", "page2"))
				writeJSON(t, w, http.StatusOK, []any{
					identityJSON("11111111-1111-1111-1111-111111111111", "admin@demo.portal.gov.in", "Admin"),
				})
			case "page2":
				writeJSON(t, w, http.StatusOK, []any{
					identityJSON("22222222-2222-2222-2222-222222222222", "Teacher@Demo.Portal.gov.in", "Teacher"),
				})
			default:
				t.Errorf("unexpected page token %q", token)
				w.WriteHeader(http.StatusBadRequest)
			}
		})
		adapter := newTestAdapter(t, mux, true)

		accounts, err := adapter.ListIdentities(context.Background())
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, []string{"", "page2"}, tokens)

		found, ok := domain.FindAccountByEmail(accounts, "teacher@demo.portal.gov.in")
		require.True(t, ok)
		assert.Equal(t, "22222222-2222-2222-2222-222222222222", found.ID)
	})

	t.Run("listing failure", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /admin/identities", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{
				"error": map[string]any{"code": 401, "message": "The request could not be authorized"},
			})
		})
		adapter := newTestAdapter(t, mux, true)

		_, err := adapter.ListIdentities(context.Background())
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestIdentityAdapter_Login(t *testing.T) {
	identity := identityJSON("33333333-3333-3333-3333-333333333333", "teacher@demo.portal.gov.in", "Teacher")

	t.Run("successful login returns session token", func(t *testing.T) {
		var submitted map[string]any

		mux := http.NewServeMux()
		mux.HandleFunc("GET /self-service/login/api", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, flowJSON("flow-1", "login"))
		})
		mux.HandleFunc("POST /self-service/login", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "flow-1", r.URL.Query().Get("flow"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
			writeJSON(t, w, http.StatusOK, map[string]any{
				"session_token": "ory_st_abc123",
				"session":       sessionJSON("sess-1", true, identity),
			})
		})
		adapter := newTestAdapter(t, mux, false)

		session, err := adapter.Login(context.Background(), domain.Credentials{Email: "teacher@demo.portal.gov.in", Password: domain.DemoDefaultPassword})
		require.NoError(t, err)

		assert.Equal(t, "ory_st_abc123", session.Token)
		assert.Equal(t, "sess-1", session.ID)
		assert.True(t, session.Active)
		assert.Equal(t, "teacher@demo.portal.gov.in", session.Account.Email)
		assert.Equal(t, "password", submitted["method"])
		assert.Equal(t, "teacher@demo.portal.gov.in", submitted["identifier"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /self-service/login/api", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, flowJSON("flow-1", "login"))
		})
		mux.HandleFunc("POST /self-service/login", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusBadRequest, flowErrorJSON(4000006, "The provided credentials are invalid."))
		})
		adapter := newTestAdapter(t, mux, false)

		_, err := adapter.Login(context.Background(), domain.Credentials{Email: "teacher@demo.portal.gov.in", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.ErrorContains(t, err, "credentials are invalid")
	})
}

func TestIdentityAdapter_Register(t *testing.T) {
	t.Run("duplicate email", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /self-service/registration/api", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, flowJSON("flow-2", "registration"))
		})
		mux.HandleFunc("POST /self-service/registration", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusBadRequest, flowErrorJSON(4000007, "An account with the same identifier (email, phone, username, ...) exists already."))
		})
		adapter := newTestAdapter(t, mux, false)

		_, err := adapter.Register(context.Background(), domain.NewAccount{Email: "citizen@demo.portal.gov.in", Password: "Portal@Demo2024"})
		assert.ErrorIs(t, err, domain.ErrAccountExists)
	})

	t.Run("successful registration", func(t *testing.T) {
		identity := identityJSON("44444444-4444-4444-4444-444444444444", "new@demo.portal.gov.in", "New Citizen")

		mux := http.NewServeMux()
		mux.HandleFunc("GET /self-service/registration/api", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, flowJSON("flow-2", "registration"))
		})
		mux.HandleFunc("POST /self-service/registration", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "New Citizen", body["traits"].(map[string]any)["name"])

			writeJSON(t, w, http.StatusOK, map[string]any{
				"identity":      identity,
				"session_token": "ory_st_new",
				"session":       sessionJSON("sess-2", true, identity),
			})
		})
		adapter := newTestAdapter(t, mux, false)

		session, err := adapter.Register(context.Background(), domain.NewAccount{
			Email:    "new@demo.portal.gov.in",
			Password: "Portal@Demo2024",
			Metadata: domain.AccountMetadata{Name: "New Citizen"},
		})
		require.NoError(t, err)
		assert.Equal(t, "ory_st_new", session.Token)
		assert.Equal(t, "44444444-4444-4444-4444-444444444444", session.Account.ID)
	})
}

func TestIdentityAdapter_WhoAmIAndLogout(t *testing.T) {
	identity := identityJSON("55555555-5555-5555-5555-555555555555", "nrc@demo.portal.gov.in", "NRC In-charge")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /sessions/whoami", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Session-Token") != "good" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{
				"error": map[string]any{"code": 401, "message": "No valid session credentials found in the request."},
			})
			return
		}
		writeJSON(t, w, http.StatusOK, sessionJSON("sess-3", true, identity))
	})
	mux.HandleFunc("DELETE /self-service/logout/api", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["session_token"] != "good" {
			writeJSON(t, w, http.StatusForbidden, map[string]any{
				"error": map[string]any{"code": 403, "message": "The provided session token is invalid."},
			})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	adapter := newTestAdapter(t, mux, false)
	ctx := context.Background()

	session, err := adapter.WhoAmI(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "nrc@demo.portal.gov.in", session.Account.Email)
	assert.Equal(t, "good", session.Token)

	_, err = adapter.WhoAmI(ctx, "bad")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = adapter.WhoAmI(ctx, "")
	assert.ErrorIs(t, err, domain.ErrMissingToken)

	assert.NoError(t, adapter.Logout(ctx, "good"))
	assert.ErrorIs(t, adapter.Logout(ctx, "bad"), domain.ErrUnauthorized)
}

package kratos

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"portal-service/app/config"
	"portal-service/app/utils/logger"
)

const fixtureTime = "2024-05-01T10:00:00Z"

func identityJSON(id, email, name string) map[string]any {
	return map[string]any{
		"id":         id,
		"schema_id":  "default",
		"schema_url": "http://kratos-public:4433/schemas/default",
		"state":      "active",
		"created_at": fixtureTime,
		"traits": map[string]any{
			"email": email,
			"name":  name,
		},
	}
}

func flowJSON(id, flowType string) map[string]any {
	return map[string]any{
		"id":          id,
		"type":        "api",
		"expires_at":  "2099-01-01T00:00:00Z",
		"issued_at":   fixtureTime,
		"request_url": "http://kratos-public:4433/self-service/" + flowType + "/api",
		"state":       "choose_method",
		"ui": map[string]any{
			"action": "http://kratos-public:4433/self-service/" + flowType + "?flow=" + id,
			"method": "POST",
			"nodes":  []any{},
		},
	}
}

func sessionJSON(id string, active bool, identity map[string]any) map[string]any {
	return map[string]any{
		"id":         id,
		"active":     active,
		"expires_at": "2099-01-01T00:00:00Z",
		"identity":   identity,
	}
}

func flowErrorJSON(messageID int, text string) map[string]any {
	flow := flowJSON("flow-1", "login")
	flow["ui"].(map[string]any)["messages"] = []any{
		map[string]any{"id": messageID, "text": text, "type": "error"},
	}
	return flow
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

// newTestAdapter starts a fake Kratos serving both public and admin routes from one mux
func newTestAdapter(t *testing.T, mux *http.ServeMux, withAdmin bool) *IdentityAdapter {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		KratosPublicURL:     server.URL,
		KratosSchemaID:      "default",
		ExternalCallTimeout: 5 * time.Second,
	}
	if withAdmin {
		cfg.KratosAdminURL = server.URL
		cfg.KratosAdminToken = "ory_pat_test"
	}

	client, err := NewClient(cfg, logger.Discard())
	require.NoError(t, err)

	return NewIdentityAdapter(client, cfg.KratosSchemaID, logger.Discard()).(*IdentityAdapter)
}

func linkNext(serverPath, token string) string {
	return fmt.Sprintf(`<%s?page_size=250&page_token=%s>; rel="next"`, serverPath, token)
}

package kratos

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	kratosclient "github.com/ory/kratos-client-go"

	"portal-service/app/domain"
)

// Kratos UI message ids the adapter reacts to
const (
	msgInvalidCredentials = 4000006
	msgDuplicateIdentity  = 4000007
)

type uiMessage struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// errorBody covers both the flow (ui.messages) and generic ({"error": ...}) error envelopes
type errorBody struct {
	UI struct {
		Messages []uiMessage `json:"messages"`
		Nodes    []struct {
			Messages []uiMessage `json:"messages"`
		} `json:"nodes"`
	} `json:"ui"`
	Error struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error"`
}

func (b errorBody) messages() []uiMessage {
	out := append([]uiMessage{}, b.UI.Messages...)
	for _, n := range b.UI.Nodes {
		out = append(out, n.Messages...)
	}
	return out
}

func (b errorBody) hasMessage(id int64) bool {
	for _, m := range b.messages() {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (b errorBody) summary() string {
	var parts []string
	for _, m := range b.messages() {
		if m.Type == "error" || m.Type == "" {
			parts = append(parts, m.Text)
		}
	}
	if b.Error.Reason != "" {
		parts = append(parts, b.Error.Reason)
	} else if b.Error.Message != "" {
		parts = append(parts, b.Error.Message)
	}
	return strings.Join(parts, "; ")
}

func parseErrorBody(err error) errorBody {
	var body errorBody
	var apiErr *kratosclient.GenericOpenAPIError
	if errors.As(err, &apiErr) {
		_ = json.Unmarshal(apiErr.Body(), &body)
	}
	return body
}

// mapError converts a kratos-client-go failure into a domain error for the given operation
func (a *IdentityAdapter) mapError(err error, httpResp *http.Response, operation string) error {
	status := getHTTPStatus(httpResp)
	body := parseErrorBody(err)
	detail := body.summary()
	if detail == "" {
		detail = err.Error()
	}

	a.logger.Debug("kratos call failed",
		"operation", operation,
		"http_status", status,
		"detail", detail)

	switch {
	case status == 0:
		return fmt.Errorf("%w: %s: %v", domain.ErrIdentityProvider, operation, err)

	case status == http.StatusConflict,
		body.hasMessage(msgDuplicateIdentity):
		return fmt.Errorf("%w: %s", domain.ErrAccountExists, detail)

	case operation == opLogin && (status == http.StatusBadRequest || status == http.StatusUnauthorized),
		body.hasMessage(msgInvalidCredentials):
		return fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, detail)

	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, detail)

	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, detail)

	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, detail)

	default:
		return fmt.Errorf("%w: %s failed with HTTP %d: %s", domain.ErrIdentityProvider, operation, status, detail)
	}
}

func getHTTPStatus(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

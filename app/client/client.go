// Package client is the dashboard-side session client for the portal API.
// It decorates every request with the stored bearer token and reports
// rejected sessions without retrying, refreshing, or redirecting.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"portal-service/app/domain"
)

const (
	DefaultTimeout = 30 * time.Second

	loginPath   = "/v1/auth/login"
	signupPath  = "/v1/auth/signup"
	logoutPath  = "/v1/auth/logout"
	profilePath = "/v1/auth/me"
	seedPath    = "/v1/admin/seed-demo-users"
)

// ErrNoSession is returned when an operation needs a signed-in session and none is stored
var ErrNoSession = errors.New("no active session")

// Config configures a Client
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client
}

// Client talks to the portal API on behalf of one session
type Client struct {
	http   *resty.Client
	tokens TokenStore
	logger *slog.Logger
}

// New creates a client. tokens decides where the session token lives.
func New(cfg Config, tokens TokenStore) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0)

	c := &Client{
		http:   rc,
		tokens: tokens,
		logger: cfg.Logger.With("component", "session-client"),
	}
	rc.OnBeforeRequest(c.attachToken)
	rc.OnAfterResponse(c.observeResponse)

	return c, nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL must have a host, got: %q", raw)
	}
	return nil
}

// attachToken sends the stored token as a bearer credential. Without one the request goes out unauthenticated.
func (c *Client) attachToken(_ *resty.Client, req *resty.Request) error {
	if req.Header.Get("Authorization") != "" {
		return nil
	}

	token, err := c.tokens.Token()
	if err != nil {
		c.logger.Warn("failed to read session token, sending request unauthenticated", "error", err)
		return nil
	}
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return nil
}

// observeResponse logs rejected credentials. The response itself is left untouched.
func (c *Client) observeResponse(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() == http.StatusUnauthorized {
		c.logger.Warn("request unauthorized",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode())
	}
	return nil
}

// Do sends an authenticated JSON request and decodes a successful body into result
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().
		SetContext(ctx).
		SetError(&APIError{})
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	return handleResponse(resp)
}

func handleResponse(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}

	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr == nil {
		apiErr = &APIError{}
	}
	apiErr.Status = resp.StatusCode()
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	return apiErr
}

// Login signs in and stores the issued token
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	var session domain.AuthSession
	creds := domain.Credentials{Email: email, Password: password}
	if err := c.Do(ctx, http.MethodPost, loginPath, creds, &session); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	if err := c.storeSession(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Signup registers a citizen account and stores the issued token
func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthSession, error) {
	var session domain.AuthSession
	if err := c.Do(ctx, http.MethodPost, signupPath, req, &session); err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}

	if err := c.storeSession(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) storeSession(session *domain.AuthSession) error {
	if session.Token == "" {
		return fmt.Errorf("server did not issue a session token")
	}
	if err := c.tokens.SetToken(session.Token); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

// Logout notifies the server and forgets the token. The notification is best-effort.
func (c *Client) Logout(ctx context.Context) error {
	token, err := c.tokens.Token()
	if err != nil {
		c.logger.Warn("failed to read session token before logout", "error", err)
	}

	if token != "" {
		if err := c.Do(ctx, http.MethodPost, logoutPath, nil, nil); err != nil {
			c.logger.Debug("logout notification failed", "error", err)
		}
	}

	if err := c.tokens.ClearToken(); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

// Profile fetches the signed-in account and its roles
func (c *Client) Profile(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.Do(ctx, http.MethodGet, profilePath, nil, &profile); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

// RestoreSession checks a stored token against the server. A rejected token is cleared
// and ErrNoSession returned.
func (c *Client) RestoreSession(ctx context.Context) (*domain.Profile, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read session token: %w", err)
	}
	if token == "" {
		return nil, ErrNoSession
	}

	profile, err := c.Profile(ctx)
	if err == nil {
		return profile, nil
	}

	if errors.Is(err, domain.ErrUnauthorized) {
		if clearErr := c.tokens.ClearToken(); clearErr != nil {
			return nil, fmt.Errorf("failed to clear rejected session token: %w", clearErr)
		}
		return nil, fmt.Errorf("%w: stored session was rejected", ErrNoSession)
	}
	return nil, err
}

// Seed triggers demo account provisioning and returns one result per roster entry
func (c *Client) Seed(ctx context.Context) ([]domain.SeedResult, error) {
	var report domain.SeedReport
	if err := c.Do(ctx, http.MethodPost, seedPath, nil, &report); err != nil {
		return nil, fmt.Errorf("seeding failed: %w", err)
	}
	return report.Results, nil
}

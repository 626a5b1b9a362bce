package kratos

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	kratosclient "github.com/ory/kratos-client-go"

	"portal-service/app/config"
)

// Client holds the public (self-service) API and, when configured, the privileged admin API
type Client struct {
	publicAPI *kratosclient.APIClient
	adminAPI  *kratosclient.APIClient
	publicURL string
	logger    *slog.Logger
}

// NewClient creates a new Kratos client. The admin API is only built when both
// KRATOS_ADMIN_URL and KRATOS_ADMIN_TOKEN are set.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if !isValidURL(cfg.KratosPublicURL) {
		return nil, fmt.Errorf("invalid Kratos public URL: %s", cfg.KratosPublicURL)
	}

	timeout := cfg.ExternalCallTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	publicConfig := newConfiguration(cfg.KratosPublicURL, timeout)
	client := &Client{
		publicAPI: kratosclient.NewAPIClient(publicConfig),
		publicURL: cfg.KratosPublicURL,
		logger:    logger,
	}

	if cfg.SeedingConfigured() {
		if !isValidURL(cfg.KratosAdminURL) {
			return nil, fmt.Errorf("invalid Kratos admin URL: %s", cfg.KratosAdminURL)
		}
		adminConfig := newConfiguration(cfg.KratosAdminURL, timeout)
		adminConfig.DefaultHeader["Authorization"] = "Bearer " + strings.TrimSpace(cfg.KratosAdminToken)
		client.adminAPI = kratosclient.NewAPIClient(adminConfig)
	}

	logger.Info("Kratos client initialized",
		"public_url", cfg.KratosPublicURL,
		"admin_url", cfg.KratosAdminURL,
		"admin_enabled", client.adminAPI != nil)

	return client, nil
}

func newConfiguration(serverURL string, timeout time.Duration) *kratosclient.Configuration {
	conf := kratosclient.NewConfiguration()
	conf.Servers = []kratosclient.ServerConfiguration{{URL: serverURL}}
	conf.HTTPClient = &http.Client{Timeout: timeout}
	if conf.DefaultHeader == nil {
		conf.DefaultHeader = make(map[string]string)
	}
	conf.DefaultHeader["Accept"] = "application/json"
	return conf
}

// PublicAPI returns the public API client
func (c *Client) PublicAPI() *kratosclient.APIClient {
	return c.publicAPI
}

// AdminAPI returns the admin API client, nil when administration is not configured
func (c *Client) AdminAPI() *kratosclient.APIClient {
	return c.adminAPI
}

// HasAdmin reports whether privileged identity administration is available
func (c *Client) HasAdmin() bool {
	return c.adminAPI != nil
}

// HealthCheck checks if Kratos is reachable
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, response, err := c.publicAPI.MetadataAPI.IsReady(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to connect to Kratos public API at %s: %w", c.publicURL, err)
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("kratos public API returned status %d", response.StatusCode)
	}

	return nil
}

// isValidURL validates if a URL is properly formatted
func isValidURL(urlStr string) bool {
	if urlStr == "" {
		return false
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	return parsedURL.Scheme != "" && parsedURL.Host != ""
}

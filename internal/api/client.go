package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
)

// anonymousToken is sent when no token is configured; go-gh needs a token
// for its host to skip credential discovery.
const anonymousToken = "anonymous"

type Client struct {
	rest    *ghAPI.RESTClient
	baseURL *url.URL
}

// NewClient builds a REST client for the pyLog API at baseURL. Any query
// string on baseURL is ignored for requests.
func NewClient(baseURL, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be http(s)://host", baseURL)
	}
	u.RawQuery = ""
	u.Fragment = ""

	if token == "" {
		token = anonymousToken
	}
	rest, err := ghAPI.NewRESTClient(ghAPI.ClientOptions{
		Host:      u.Hostname(),
		AuthToken: token,
		Timeout:   timeout,
		Headers:   map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return &Client{rest: rest, baseURL: u}, nil
}

func (c *Client) Name() string { return "remote" }

// BaseURL returns the API root without any query string.
func (c *Client) BaseURL() string { return c.baseURL.String() }

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.baseURL.String(), "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.rest.DoWithContext(ctx, http.MethodGet, c.endpoint(path), nil, result)
}

// Ping checks that the server answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := c.Get(ctx, "health", &health); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("health check: status %q", health.Status)
	}
	return nil
}

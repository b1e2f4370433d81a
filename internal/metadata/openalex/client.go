// Package openalex provides a client for searching the OpenAlex works API.
package openalex

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.openalex.org"

// Client provides access to the OpenAlex works API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	mailTo      string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithMailTo sets the polite-pool contact address sent on every request.
// OpenAlex routes requests carrying a mailto to a faster pool.
func WithMailTo(mailTo string) Option {
	return func(c *Client) { c.mailTo = mailTo }
}

// NewClient creates a new OpenAlex client.
// Rate limited well under the documented 10 requests per second.
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// 5 requests per second, burst of 5.
		rateLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		logger:      logger,
		baseURL:     defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wait blocks until rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}

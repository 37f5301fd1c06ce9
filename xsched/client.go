package xsched

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.xsched.io/v1"
	// DefaultTimeout bounds every request unless overridden.
	DefaultTimeout = 30 * time.Second

	defaultUserAgent = "xsched-go/1"
)

// Config is the structured form of the client configuration. Zero fields fall
// back to their defaults.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	UserAgent  string
}

// Option overrides a single configuration field for New.
type Option func(*Config)

// WithBaseURL points the client at another deployment.
func WithBaseURL(u string) Option {
	return func(c *Config) { c.BaseURL = u }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) { c.HTTPClient = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Config) { c.UserAgent = ua }
}

// Client talks to the scheduling API. It holds no per-call state and is safe
// for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client

	Posts     *PostsService
	Accounts  *AccountsService
	Analytics *AnalyticsService
	Media     *MediaService
	Usage     *UsageService
	Queue     *QueueService
	Webhooks  *WebhooksService
	Tenants   *TenantsService
}

// New constructs a client from a bare API key.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := Config{APIKey: apiKey}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewFromConfig(cfg)
}

// NewFromConfig constructs a client from a configuration record.
func NewFromConfig(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ValidationError{Field: "api key", Reason: "must not be empty"}
	}
	if cfg.Timeout < 0 {
		return nil, ValidationError{Field: "timeout", Reason: "must not be negative"}
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:    cfg.Timeout,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout == 0 {
		c.timeout = DefaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}

	c.Posts = &PostsService{client: c}
	c.Accounts = &AccountsService{client: c}
	c.Analytics = &AnalyticsService{client: c}
	c.Media = &MediaService{client: c}
	c.Usage = &UsageService{client: c}
	c.Queue = &QueueService{client: c}
	c.Webhooks = &WebhooksService{client: c}
	c.Tenants = &TenantsService{client: c}

	return c, nil
}

// BaseURL returns the effective API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the effective per-request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

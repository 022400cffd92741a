package supabase

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout for HTTP requests against the backend.
	DefaultTimeout = 10 * time.Second
)

// Client is a handle to the remote backend capability set: authentication,
// object storage, and table queries. One client serves the whole process.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     zerolog.Logger
	auth       *AuthClient
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a backend client from a resolved remote config.
func NewClient(cfg RemoteConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.auth = newAuthClient(c)
	return c
}

// Auth returns the authentication capability group.
func (c *Client) Auth() *AuthClient { return c.auth }

// Storage returns the object storage capability group.
func (c *Client) Storage() *StorageClient { return &StorageClient{c: c} }

// Provider lazily resolves the deployment config and memoizes a single
// backend client for the lifetime of the process. The config endpoint is
// never re-queried after the first success; a failed resolution is retried
// on the next call.
type Provider struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
	opts       []Option

	mu     sync.Mutex
	client *Client
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithProviderHTTPClient sets the HTTP client used for both the config fetch
// and the backend client it produces.
func WithProviderHTTPClient(hc *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = hc
		p.opts = append(p.opts, WithHTTPClient(hc))
	}
}

// WithProviderLogger sets the diagnostic logger.
func WithProviderLogger(logger zerolog.Logger) ProviderOption {
	return func(p *Provider) {
		p.logger = logger
		p.opts = append(p.opts, WithLogger(logger))
	}
}

// NewProvider creates a provider that resolves config from endpoint.
func NewProvider(endpoint string, opts ...ProviderOption) *Provider {
	p := &Provider{
		endpoint: endpoint,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle returns the memoized backend client, resolving config on first use.
func (p *Provider) Handle(ctx context.Context) (*Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	cfg, err := FetchConfig(ctx, p.endpoint, p.httpClient)
	if err != nil {
		p.logger.Error().Err(err).Str("endpoint", p.endpoint).Msg("backend config resolution failed")
		return nil, err
	}

	p.client = NewClient(cfg, p.opts...)
	p.logger.Info().Str("backend", cfg.URL).Msg("backend client initialized")
	return p.client, nil
}

package altura

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the production Altura API
	DefaultBaseURL = "https://api.alturanft.com"
	// DefaultUserSettingsWatchdog bounds a user-settings run
	DefaultUserSettingsWatchdog = 5 * time.Second
)

// Client holds what every operation shares: credentials, transport, host and logger
type Client struct {
	baseURL   string
	creds     Credentials
	transport Transport
	host      Host
	tracker   *Tracker
	logger    zerolog.Logger
	opts      clientOptions

	mu           sync.Mutex
	userSettings map[bool]*UserSettings
}

// NewClient creates a new Altura client
func NewClient(creds Credentials, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if creds == nil {
		return nil, fmt.Errorf("%w: credentials are required", ErrInvalidConfig)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	// Ensure baseURL doesn't have trailing slash
	baseURL := strings.TrimRight(options.baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid base URL: %v", ErrInvalidConfig, err)
	}

	transport := options.transport
	if transport == nil {
		httpClient := options.httpClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: options.httpTimeout}
		}
		transport = NewHTTPTransport(httpClient)
	}

	if creds.APIKey() == "" {
		logger.Warn().Msg("No API key configured, authenticated endpoints will fail")
	}

	return &Client{
		baseURL:      baseURL,
		creds:        creds,
		transport:    transport,
		host:         options.host,
		tracker:      newTracker(baseURL, creds, transport, options.telemetry, logger),
		logger:       logger,
		opts:         options,
		userSettings: make(map[bool]*UserSettings),
	}, nil
}

// BaseURL returns the API base URL without trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpoint joins the base URL and an API path
func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

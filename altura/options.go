package altura

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL         string
	httpClient      *http.Client
	httpTimeout     time.Duration
	transport       Transport
	host            Host
	telemetry       bool
	logRawResponses bool
	userWatchdog    time.Duration
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:      DefaultBaseURL,
		httpTimeout:  DefaultHTTPTimeout,
		host:         nopHost{},
		telemetry:    true,
		userWatchdog: DefaultUserSettingsWatchdog,
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used by the default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithHTTPTimeout sets the HTTP client timeout of the default transport.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.httpTimeout = timeout
		}
	}
}

// WithTransport replaces the HTTP transport entirely.
func WithTransport(transport Transport) Option {
	return func(o *clientOptions) {
		o.transport = transport
	}
}

// WithHost sets the host asked to release operation containers.
func WithHost(host Host) Option {
	return func(o *clientOptions) {
		if host != nil {
			o.host = host
		}
	}
}

// WithTelemetry enables or disables the SDK usage side-call.
func WithTelemetry(enabled bool) Option {
	return func(o *clientOptions) {
		o.telemetry = enabled
	}
}

// WithRawResponseLogging logs every raw response body at debug level.
func WithRawResponseLogging(enabled bool) Option {
	return func(o *clientOptions) {
		o.logRawResponses = enabled
	}
}

// WithUserSettingsWatchdog sets how long a user-settings run may wait for a
// response before it is forced to finish. Only UserSettings arms a watchdog.
func WithUserSettingsWatchdog(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.userWatchdog = d
		}
	}
}

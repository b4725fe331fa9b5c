package altura

import (
	"sync"
)

// DefaultSource is the source header value identifying this SDK
const DefaultSource = "altura-go-sdk"

// Credentials supplies the API key and the SDK source tag
type Credentials interface {
	APIKey() string
	Source() string
}

// StaticCredentials holds a fixed API key and source tag
type StaticCredentials struct {
	Key string
	Tag string
}

// NewCredentials creates static credentials. An empty source falls back to DefaultSource.
func NewCredentials(apiKey, source string) StaticCredentials {
	if source == "" {
		source = DefaultSource
	}
	return StaticCredentials{Key: apiKey, Tag: source}
}

// APIKey returns the API key
func (c StaticCredentials) APIKey() string {
	return c.Key
}

// Source returns the source tag
func (c StaticCredentials) Source() string {
	if c.Tag == "" {
		return DefaultSource
	}
	return c.Tag
}

var (
	processMu    sync.RWMutex
	processCreds Credentials
)

// InitCredentials installs the process-wide credentials. Only the first call
// has any effect; later calls return the credentials already installed.
func InitCredentials(creds Credentials) Credentials {
	processMu.Lock()
	defer processMu.Unlock()

	if processCreds == nil {
		processCreds = creds
	}
	return processCreds
}

// ProcessCredentials returns the process-wide credentials, or nil when
// InitCredentials has not been called
func ProcessCredentials() Credentials {
	processMu.RLock()
	defer processMu.RUnlock()
	return processCreds
}

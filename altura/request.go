package altura

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
)

// Request describes one outbound call. It is immutable once built: the
// accessors hand out copies so a caller cannot alter a request in flight.
type Request struct {
	method  string
	url     string
	headers map[string]string
	body    []byte
}

// Method returns the HTTP method
func (r Request) Method() string {
	return r.method
}

// URL returns the fully qualified request URL
func (r Request) URL() string {
	return r.url
}

// Header returns a single header value
func (r Request) Header(key string) string {
	return r.headers[key]
}

// Headers returns a copy of the request headers
func (r Request) Headers() map[string]string {
	return maps.Clone(r.headers)
}

// Body returns a copy of the request body, nil for bodiless requests
func (r Request) Body() []byte {
	if r.body == nil {
		return nil
	}
	return bytes.Clone(r.body)
}

// HasBody reports whether the request carries a body
func (r Request) HasBody() bool {
	return r.body != nil
}

// requestBuilder assembles a Request. Business parameters are not validated;
// the only structural requirement is a non-empty URL.
type requestBuilder struct {
	method  string
	url     string
	headers map[string]string
	body    []byte
	err     error
}

func newRequest(method, url string) *requestBuilder {
	return &requestBuilder{
		method:  method,
		url:     url,
		headers: make(map[string]string),
	}
}

// get starts a GET request carrying the standard SDK headers.
func get(url string, creds Credentials) *requestBuilder {
	return newRequest(http.MethodGet, url).standardHeaders(creds)
}

// post starts a POST request carrying the standard SDK headers.
func post(url string, creds Credentials) *requestBuilder {
	return newRequest(http.MethodPost, url).standardHeaders(creds)
}

func (b *requestBuilder) standardHeaders(creds Credentials) *requestBuilder {
	b.headers["Content-Type"] = "application/json"
	b.headers["source"] = creds.Source()
	return b
}

func (b *requestBuilder) header(key, value string) *requestBuilder {
	b.headers[key] = value
	return b
}

// authorized injects the API key as the Authorization header.
func (b *requestBuilder) authorized(creds Credentials) *requestBuilder {
	return b.header("Authorization", creds.APIKey())
}

func (b *requestBuilder) jsonBody(v any) *requestBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.err = fmt.Errorf("failed to encode request body: %w", err)
		return b
	}
	b.body = data
	return b
}

func (b *requestBuilder) rawBody(data []byte) *requestBuilder {
	b.body = bytes.Clone(data)
	if b.body == nil {
		b.body = []byte{}
	}
	return b
}

func (b *requestBuilder) build() (Request, error) {
	if b.err != nil {
		return Request{}, b.err
	}
	if b.url == "" {
		return Request{}, ErrEmptyURL
	}
	return Request{
		method:  b.method,
		url:     b.url,
		headers: maps.Clone(b.headers),
		body:    b.body,
	}, nil
}

package altura

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// DefaultHTTPTimeout bounds a single HTTP exchange at the client level
const DefaultHTTPTimeout = 30 * time.Second

// Response is what the transport resolves a call with
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx range
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Call is one dispatched request. It is owned by exactly one lifecycle,
// which must Release it exactly once.
type Call interface {
	// Done is closed once Result is available
	Done() <-chan struct{}

	// Result returns the response and any network error. The response may be
	// nil when the error is non-nil.
	Result() (*Response, error)

	// Release frees the resources held by the call. Releasing a call that is
	// still outstanding abandons it.
	Release()
}

// Transport performs network calls for a lifecycle
type Transport interface {
	Dispatch(ctx context.Context, req Request) Call
}

// HTTPTransport implements Transport on top of net/http
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport. A nil client gets a default one with DefaultHTTPTimeout.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &HTTPTransport{client: client}
}

// Dispatch starts the request in its own goroutine and returns immediately
func (t *HTTPTransport) Dispatch(ctx context.Context, req Request) Call {
	ctx, cancel := context.WithCancel(ctx)
	call := &httpCall{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(call.done)
		call.resp, call.err = t.do(ctx, req)
	}()

	return call
}

// do performs the request and reads the whole body
func (t *HTTPTransport) do(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if req.HasBody() {
		body = bytes.NewReader(req.Body())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), req.URL(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range req.Headers() {
		httpReq.Header.Set(k, v)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Response{StatusCode: resp.StatusCode, Body: data}, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// httpCall implements Call for HTTPTransport
type httpCall struct {
	done    chan struct{}
	resp    *Response
	err     error
	cancel  context.CancelFunc
	release sync.Once
}

func (c *httpCall) Done() <-chan struct{} {
	return c.done
}

func (c *httpCall) Result() (*Response, error) {
	<-c.done
	return c.resp, c.err
}

func (c *httpCall) Release() {
	c.release.Do(c.cancel)
}

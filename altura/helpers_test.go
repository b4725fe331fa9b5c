package altura

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeCall is a Call resolved by the test
type fakeCall struct {
	req      Request
	done     chan struct{}
	resp     *Response
	err      error
	once     sync.Once
	released atomic.Int32
}

func newFakeCall(req Request) *fakeCall {
	return &fakeCall{req: req, done: make(chan struct{})}
}

func (c *fakeCall) resolve(resp *Response, err error) {
	c.once.Do(func() {
		c.resp = resp
		c.err = err
		close(c.done)
	})
}

func (c *fakeCall) Done() <-chan struct{} {
	return c.done
}

func (c *fakeCall) Result() (*Response, error) {
	<-c.done
	return c.resp, c.err
}

func (c *fakeCall) Release() {
	c.released.Add(1)
}

// fakeTransport records dispatched calls. With reply set, calls resolve
// immediately with that response.
type fakeTransport struct {
	mu    sync.Mutex
	calls []*fakeCall
	reply *Response
}

func (t *fakeTransport) Dispatch(ctx context.Context, req Request) Call {
	call := newFakeCall(req)

	t.mu.Lock()
	t.calls = append(t.calls, call)
	reply := t.reply
	t.mu.Unlock()

	if reply != nil {
		call.resolve(reply, nil)
	}
	return call
}

func (t *fakeTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

func (t *fakeTransport) call(i int) *fakeCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[i]
}

func newTestClient(t *testing.T, transport Transport, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{WithTransport(transport), WithTelemetry(false)}, opts...)
	client, err := NewClient(NewCredentials("test-key", "test-source"), zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

// waitDone fails the test if ch is not closed within a second
func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for run to finish")
	}
}

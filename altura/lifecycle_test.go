package altura

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events  []string
	model   *Collection
	failure *Failure
}

func (r *recorder) config(guard Guard, transport Transport, watchdog time.Duration) lifecycleConfig[Collection] {
	return lifecycleConfig[Collection]{
		guard:     guard,
		transport: transport,
		watchdog:  watchdog,
		onSuccess: func(m *Collection) {
			r.events = append(r.events, "success")
			r.model = m
		},
		onError: func(f *Failure) {
			r.events = append(r.events, "error")
			r.failure = f
		},
		onDisposed: func() {
			r.events = append(r.events, "disposed")
		},
		logger: zerolog.Nop(),
	}
}

func staticRequest() (Request, error) {
	return newRequest(http.MethodGet, "https://example.test/api/v2/collection/0xABC").build()
}

func TestLifecycle_Success(t *testing.T) {
	transport := &fakeTransport{}
	guard := NewGuard()
	rec := &recorder{}

	lc := newLifecycle(rec.config(guard, transport, 0))
	assert.Equal(t, StateIdle, lc.State())

	require.True(t, lc.start(context.Background(), staticRequest))
	assert.Equal(t, StateInFlight, lc.State())
	assert.True(t, guard.Running())

	transport.call(0).resolve(&Response{StatusCode: 200, Body: []byte(`{"id":"0xABC","name":"Demo","unknown":1}`)}, nil)
	waitDone(t, lc.Done())

	assert.Equal(t, []string{"success", "disposed"}, rec.events)
	require.NotNil(t, rec.model)
	assert.Equal(t, "0xABC", rec.model.ID)
	assert.Equal(t, "Demo", rec.model.Name)
	assert.Equal(t, StateDisposed, lc.State())
	assert.False(t, guard.Running())
	assert.Equal(t, int32(1), transport.call(0).released.Load())
	assert.True(t, lc.Outcome().OK())
}

func TestLifecycle_TransportFailures(t *testing.T) {
	tests := []struct {
		name       string
		resp       *Response
		err        error
		wantReason string
		wantStatus int
	}{
		{
			name:       "server error",
			resp:       &Response{StatusCode: 500, Body: []byte("insufficient funds")},
			wantReason: "Response code: 500. Result insufficient funds",
			wantStatus: 500,
		},
		{
			name:       "not found",
			resp:       &Response{StatusCode: 404, Body: []byte(`{"error":"missing"}`)},
			wantReason: `Response code: 404. Result {"error":"missing"}`,
			wantStatus: 404,
		},
		{
			name:       "network failure",
			err:        errors.New("connection refused"),
			wantReason: "Response code: 0. Result ",
			wantStatus: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{}
			rec := &recorder{}

			lc := newLifecycle(rec.config(NewGuard(), transport, 0))
			require.True(t, lc.start(context.Background(), staticRequest))
			transport.call(0).resolve(tt.resp, tt.err)
			waitDone(t, lc.Done())

			assert.Equal(t, []string{"error", "disposed"}, rec.events)
			require.NotNil(t, rec.failure)
			assert.Equal(t, KindTransport, rec.failure.Kind)
			assert.Equal(t, tt.wantReason, rec.failure.Reason)
			assert.Equal(t, tt.wantStatus, rec.failure.StatusCode)
			assert.ErrorIs(t, rec.failure, ErrTransport)
			assert.Nil(t, rec.model)
		})
	}
}

func TestLifecycle_DecodeFailure(t *testing.T) {
	bodies := map[string][]byte{
		"invalid json":  []byte(`{"id":`),
		"wrong shape":   []byte(`["not","an","object"]`),
		"invalid utf-8": {0xff, 0xfe, 0xfd},
		"empty body":    {},
		"null":          []byte(`null`),
		"padded null":   []byte(" null\n"),
		"bare string":   []byte(`"0xABC"`),
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			transport := &fakeTransport{}
			rec := &recorder{}

			lc := newLifecycle(rec.config(NewGuard(), transport, 0))
			require.True(t, lc.start(context.Background(), staticRequest))
			transport.call(0).resolve(&Response{StatusCode: 200, Body: body}, nil)
			waitDone(t, lc.Done())

			require.NotNil(t, rec.failure)
			assert.Equal(t, KindDecode, rec.failure.Kind)
			assert.Equal(t, ReasonDecode, rec.failure.Reason)
			assert.Equal(t, 200, rec.failure.StatusCode)
			assert.ErrorIs(t, rec.failure, ErrDecode)
			assert.Nil(t, rec.model)
		})
	}
}

func TestLifecycle_WatchdogIgnoresLateResponse(t *testing.T) {
	transport := &fakeTransport{}
	guard := NewGuard()
	rec := &recorder{}

	lc := newLifecycle(rec.config(guard, transport, 20*time.Millisecond))
	require.True(t, lc.start(context.Background(), staticRequest))
	waitDone(t, lc.Done())

	require.NotNil(t, rec.failure)
	assert.Equal(t, KindTimeout, rec.failure.Kind)
	assert.Equal(t, ReasonTimeout, rec.failure.Reason)
	assert.False(t, rec.failure.HasStatus())
	assert.Empty(t, rec.failure.RawBody)
	assert.False(t, guard.Running())

	// The real response arrives after finalization and must be discarded.
	transport.call(0).resolve(&Response{StatusCode: 200, Body: []byte(`{"id":"late"}`)}, nil)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, []string{"error", "disposed"}, rec.events)
	assert.Nil(t, rec.model)
	assert.Equal(t, int32(1), transport.call(0).released.Load())
	assert.ErrorIs(t, lc.Outcome().Failure, ErrTimeout)
}

func TestLifecycle_NoWatchdogWaitsForResponse(t *testing.T) {
	transport := &fakeTransport{}
	rec := &recorder{}

	lc := newLifecycle(rec.config(NewGuard(), transport, 0))
	require.True(t, lc.start(context.Background(), staticRequest))

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StateInFlight, lc.State())
	assert.Empty(t, rec.events)

	transport.call(0).resolve(&Response{StatusCode: 200, Body: []byte(`{}`)}, nil)
	waitDone(t, lc.Done())
	assert.Equal(t, []string{"success", "disposed"}, rec.events)
}

func TestLifecycle_RejectedWhenGuardHeld(t *testing.T) {
	transport := &fakeTransport{}
	guard := NewGuard()
	require.True(t, guard.TryAcquire())

	rec := &recorder{}
	lc := newLifecycle(rec.config(guard, transport, 0))

	assert.False(t, lc.start(context.Background(), staticRequest))
	waitDone(t, lc.Done())

	assert.Equal(t, 0, transport.count())
	assert.Equal(t, []string{"error"}, rec.events, "rejected runs never dispose a container")
	require.NotNil(t, rec.failure)
	assert.Equal(t, KindRejected, rec.failure.Kind)
	assert.ErrorIs(t, rec.failure, ErrRejected)
	assert.True(t, guard.Running(), "rejection must not clear a guard it never held")
	assert.Equal(t, StateDisposed, lc.State())
}

func TestLifecycle_InvalidRequest(t *testing.T) {
	transport := &fakeTransport{}
	guard := NewGuard()
	rec := &recorder{}

	lc := newLifecycle(rec.config(guard, transport, 0))
	started := lc.start(context.Background(), func() (Request, error) {
		return newRequest(http.MethodGet, "").build()
	})
	require.True(t, started)
	waitDone(t, lc.Done())

	assert.Equal(t, 0, transport.count())
	require.NotNil(t, rec.failure)
	assert.Equal(t, KindInvalidRequest, rec.failure.Kind)
	assert.ErrorIs(t, rec.failure, ErrEmptyURL)
	assert.False(t, guard.Running())
}

func TestLifecycle_FinishIsIdempotent(t *testing.T) {
	transport := &fakeTransport{}
	guard := NewGuard()
	rec := &recorder{}

	lc := newLifecycle(rec.config(guard, transport, 0))
	require.True(t, lc.start(context.Background(), staticRequest))

	// Racing finalizers: only the first one counts.
	lc.finish(Outcome[Collection]{Failure: timeoutFailure()})
	lc.finish(Outcome[Collection]{Model: &Collection{ID: "x"}})
	transport.call(0).resolve(&Response{StatusCode: 200, Body: []byte(`{}`)}, nil)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, []string{"error", "disposed"}, rec.events)
	assert.Equal(t, int32(1), transport.call(0).released.Load())
	assert.False(t, guard.Running())
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateIdle, "idle"},
		{StateDispatching, "dispatching"},
		{StateInFlight, "in_flight"},
		{StateCompleted, "completed"},
		{StateDisposed, "disposed"},
		{State(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

package altura

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is a lifecycle state
type State int32

const (
	// StateIdle is a lifecycle that has not started
	StateIdle State = iota
	// StateDispatching holds the guard and is building the request
	StateDispatching
	// StateInFlight is waiting on the transport or the watchdog
	StateInFlight
	// StateCompleted has an outcome and is notifying listeners
	StateCompleted
	// StateDisposed is terminal
	StateDisposed
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateInFlight:
		return "in_flight"
	case StateCompleted:
		return "completed"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one run: exactly one of Model or Failure is set.
type Outcome[T any] struct {
	Model   *T
	Failure *Failure
}

// OK reports whether the run succeeded
func (o Outcome[T]) OK() bool {
	return o.Failure == nil
}

// Decoder turns a response body into a model
type Decoder[T any] func(body []byte) (*T, error)

var (
	errInvalidUTF8 = errors.New("response body is not valid UTF-8")
	errNotObject   = errors.New("response body is not a JSON object")
)

// decodeJSON decodes body into a fresh T. Unknown fields are ignored and
// missing fields keep their zero value, but the body must be a JSON object.
func decodeJSON[T any](body []byte) (*T, error) {
	if !utf8.Valid(body) {
		return nil, errInvalidUTF8
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] != '{' {
		return nil, errNotObject
	}

	var model T
	if err := json.Unmarshal(body, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// lifecycleConfig wires a lifecycle to its collaborators and listeners
type lifecycleConfig[T any] struct {
	guard     Guard
	transport Transport
	// watchdog is zero when no timeout is armed
	watchdog time.Duration
	decode   Decoder[T]

	// onAcquired runs as soon as the guard is held, onStarted right before
	// the request is dispatched
	onAcquired func()
	onStarted  func()
	onSuccess  func(*T)
	onError    func(*Failure)
	onDisposed func()

	logger          zerolog.Logger
	logRawResponses bool
}

// Lifecycle owns one run from dispatch to disposal
type Lifecycle[T any] struct {
	id  string
	cfg lifecycleConfig[T]

	state    atomic.Int32
	acquired bool
	call     Call
	outcome  Outcome[T]
	finalize sync.Once
	done     chan struct{}
}

func newLifecycle[T any](cfg lifecycleConfig[T]) *Lifecycle[T] {
	if cfg.decode == nil {
		cfg.decode = decodeJSON[T]
	}

	id := uuid.NewString()
	cfg.logger = cfg.logger.With().Str("run_id", id).Logger()

	return &Lifecycle[T]{
		id:   id,
		cfg:  cfg,
		done: make(chan struct{}),
	}
}

// ID returns the run identifier used in log lines
func (l *Lifecycle[T]) ID() string {
	return l.id
}

// State returns the current state
func (l *Lifecycle[T]) State() State {
	return State(l.state.Load())
}

// Done is closed once the lifecycle has been disposed
func (l *Lifecycle[T]) Done() <-chan struct{} {
	return l.done
}

// Outcome returns the outcome. It is only meaningful after Done is closed.
func (l *Lifecycle[T]) Outcome() Outcome[T] {
	select {
	case <-l.done:
		return l.outcome
	default:
		return Outcome[T]{}
	}
}

// start acquires the guard, builds the request and dispatches it. It returns
// false when the guard is held by another run; the rejection is delivered to
// the error listener before start returns and nothing is dispatched.
func (l *Lifecycle[T]) start(ctx context.Context, build func() (Request, error)) bool {
	if !l.cfg.guard.TryAcquire() {
		l.cfg.logger.Warn().Msg("Run rejected, operation already in flight")
		l.finish(Outcome[T]{Failure: rejectedFailure()})
		return false
	}
	l.acquired = true
	l.state.Store(int32(StateDispatching))
	if l.cfg.onAcquired != nil {
		l.cfg.onAcquired()
	}

	req, err := build()
	if err != nil {
		l.finish(Outcome[T]{Failure: invalidRequestFailure(err)})
		return true
	}

	if l.cfg.onStarted != nil {
		l.cfg.onStarted()
	}

	l.cfg.logger.Debug().
		Str("method", req.Method()).
		Str("url", req.URL()).
		Dur("watchdog", l.cfg.watchdog).
		Msg("Dispatching request")

	l.call = l.cfg.transport.Dispatch(ctx, req)
	l.state.Store(int32(StateInFlight))

	go l.await()
	return true
}

// await races the transport call against the watchdog. Whichever settles
// first finalizes the lifecycle; the loser is never read again.
func (l *Lifecycle[T]) await() {
	var watchdog <-chan time.Time
	if l.cfg.watchdog > 0 {
		timer := time.NewTimer(l.cfg.watchdog)
		defer timer.Stop()
		watchdog = timer.C
	}

	select {
	case <-l.call.Done():
		l.finish(l.resolve(l.call.Result()))
	case <-watchdog:
		l.cfg.logger.Warn().Dur("watchdog", l.cfg.watchdog).Msg("No response before watchdog expired")
		l.finish(Outcome[T]{Failure: timeoutFailure()})
	}
}

// resolve classifies a transport result into an outcome
func (l *Lifecycle[T]) resolve(resp *Response, err error) Outcome[T] {
	var (
		statusCode int
		rawBody    string
	)
	if resp != nil {
		statusCode = resp.StatusCode
		rawBody = string(resp.Body)
	}

	if l.cfg.logRawResponses {
		l.cfg.logger.Debug().Int("status", statusCode).Str("body", rawBody).Msg("Raw API response")
	}

	if err != nil || resp == nil || !resp.OK() {
		return Outcome[T]{Failure: transportFailure(statusCode, rawBody, err)}
	}

	model, err := l.cfg.decode(resp.Body)
	if err != nil {
		return Outcome[T]{Failure: decodeFailure(statusCode, rawBody, err)}
	}

	return Outcome[T]{Model: model}
}

// finish records the outcome, notifies listeners and disposes. Only the
// first call has any effect.
func (l *Lifecycle[T]) finish(outcome Outcome[T]) {
	l.finalize.Do(func() {
		l.outcome = outcome
		l.state.Store(int32(StateCompleted))

		if outcome.OK() {
			l.cfg.logger.Debug().Msg("Request succeeded")
			if l.cfg.onSuccess != nil {
				l.cfg.onSuccess(outcome.Model)
			}
		} else {
			l.cfg.logger.Warn().
				Str("kind", outcome.Failure.Kind.String()).
				Int("status", outcome.Failure.StatusCode).
				Str("reason", outcome.Failure.Reason).
				Msg("Request failed")
			if l.cfg.onError != nil {
				l.cfg.onError(outcome.Failure)
			}
		}

		l.dispose()
		close(l.done)
	})
}

// dispose releases the transport call and the guard. A rejected run never
// held either, so it releases nothing and does not notify the host.
func (l *Lifecycle[T]) dispose() {
	if l.call != nil {
		l.call.Release()
	}
	if l.acquired {
		l.cfg.guard.Release()
	}
	l.state.Store(int32(StateDisposed))

	if l.acquired && l.cfg.onDisposed != nil {
		l.cfg.onDisposed()
	}
}

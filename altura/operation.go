package altura

import (
	"context"
	"sync"
	"time"
)

// operationConfig is the fixed part of an operation binding
type operationConfig struct {
	// name identifies the feature in logs, usage pings and host containers
	name         string
	guard        Guard
	watchdog     time.Duration
	telemetry    bool
	releaseAtEnd bool
	// immediate asks the host to release the container right away rather
	// than at its next convenient point
	immediate bool
}

// operation binds a request template, a model decoder and listeners to the
// request lifecycle. The endpoint bindings embed it.
type operation[T any] struct {
	client *Client
	cfg    operationConfig
	build  func() (Request, error)

	// onReleased runs after the host was asked to release the container
	onReleased func()

	mu         sync.Mutex
	model      *T
	current    *Lifecycle[T]
	onComplete func(*T)
	onError    func(string)

	afterSuccess   Event
	afterError     Event
	requestStarted Event
}

func newOperation[T any](client *Client, cfg operationConfig, build func() (Request, error)) *operation[T] {
	if cfg.guard == nil {
		cfg.guard = NewGuard()
	}
	return &operation[T]{
		client: client,
		cfg:    cfg,
		build:  build,
	}
}

// Name returns the feature name of the operation
func (o *operation[T]) Name() string {
	return o.cfg.name
}

// Model returns the last successfully decoded model, nil before the first success
func (o *operation[T]) Model() *T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.model
}

// Running reports whether a run currently holds this operation's guard
func (o *operation[T]) Running() bool {
	return o.cfg.guard.Running()
}

// Done is closed once the most recently started run has been disposed. It is
// closed already when no run was started.
func (o *operation[T]) Done() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return o.current.Done()
}

// Wait blocks until the most recent run is disposed or ctx ends
func (o *operation[T]) Wait(ctx context.Context) error {
	select {
	case <-o.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Outcome returns the outcome of the most recent run once it is done
func (o *operation[T]) Outcome() Outcome[T] {
	o.mu.Lock()
	current := o.current
	o.mu.Unlock()

	if current == nil {
		return Outcome[T]{}
	}
	return current.Outcome()
}

// AfterSuccess fires after the success callback of every successful run
func (o *operation[T]) AfterSuccess() *Event {
	return &o.afterSuccess
}

// AfterError fires after the error callback of every failed run
func (o *operation[T]) AfterError() *Event {
	return &o.afterError
}

// RequestStarted fires once a run holds the guard, right before dispatch
func (o *operation[T]) RequestStarted() *Event {
	return &o.requestStarted
}

func (o *operation[T]) setOnComplete(fn func(*T)) {
	o.mu.Lock()
	o.onComplete = fn
	o.mu.Unlock()
}

func (o *operation[T]) setOnError(fn func(string)) {
	o.mu.Lock()
	o.onError = fn
	o.mu.Unlock()
}

// run starts a lifecycle and returns the model as it was before the run.
// The resolved model is only available through the callbacks.
func (o *operation[T]) run(ctx context.Context) *T {
	o.mu.Lock()
	model := o.model
	onComplete, onError := o.onComplete, o.onError
	o.mu.Unlock()

	logger := o.client.logger.With().Str("operation", o.cfg.name).Logger()

	lc := newLifecycle(lifecycleConfig[T]{
		guard:     o.cfg.guard,
		transport: o.client.transport,
		watchdog:  o.cfg.watchdog,
		decode:    decodeJSON[T],
		onSuccess: func(m *T) {
			o.mu.Lock()
			o.model = m
			o.mu.Unlock()

			if onComplete != nil {
				onComplete(m)
			}
			o.afterSuccess.Emit()
		},
		onError: func(f *Failure) {
			if onError != nil {
				onError(f.Reason)
			}
			o.afterError.Emit()
		},
		onDisposed:      o.release,
		logger:          logger,
		logRawResponses: o.client.opts.logRawResponses,
	})

	// A rejected lifecycle must not replace the one in flight, so current is
	// only assigned once the guard was acquired.
	lc.cfg.onAcquired = func() {
		o.mu.Lock()
		o.current = lc
		o.mu.Unlock()
	}
	lc.cfg.onStarted = func() {
		o.requestStarted.Emit()
		if o.cfg.telemetry {
			o.client.tracker.Track(ctx, o.cfg.name)
		}
	}

	logger.Debug().Str("run_id", lc.ID()).Msg("Running operation")
	lc.start(ctx, o.build)

	return model
}

// release hands the container back to the host when configured to
func (o *operation[T]) release() {
	if !o.cfg.releaseAtEnd {
		return
	}
	o.client.host.Release(o.cfg.name, o.cfg.immediate)
	if o.onReleased != nil {
		o.onReleased()
	}
}

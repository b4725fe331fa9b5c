package altura

import "sync/atomic"

// Guard admits one in-flight run at a time.
type Guard interface {
	// TryAcquire marks the guard running and returns true, or returns false
	// if a run already holds it
	TryAcquire() bool

	// Release clears the running mark
	Release()

	// Running reports whether a run currently holds the guard
	Running() bool
}

// flightGuard implements Guard with a single atomic flag
type flightGuard struct {
	running atomic.Bool
}

// NewGuard creates a guard scoped to whoever holds it
func NewGuard() Guard {
	return &flightGuard{}
}

func (g *flightGuard) TryAcquire() bool {
	return g.running.CompareAndSwap(false, true)
}

func (g *flightGuard) Release() {
	g.running.Store(false)
}

func (g *flightGuard) Running() bool {
	return g.running.Load()
}

// userSettingsGuard is shared by every UserSettings instance in the process,
// so at most one user-settings request runs at a time.
var userSettingsGuard = NewGuard()

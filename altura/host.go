package altura

// Host owns the containers that standalone operations live in. Operations
// created with releaseAtEnd ask their host to release the container once the
// run has been disposed.
type Host interface {
	// Release destroys the named container, immediately or at the host's next
	// convenient point
	Release(container string, immediate bool)
}

// HostFunc adapts a function to the Host interface
type HostFunc func(container string, immediate bool)

// Release calls f
func (f HostFunc) Release(container string, immediate bool) {
	f(container, immediate)
}

// nopHost ignores release requests
type nopHost struct{}

func (nopHost) Release(string, bool) {}

package altura

import (
	"context"
	"time"
)

// FeatureUserSettings names the user-settings operation
const FeatureUserSettings = "AlturaUserSettings"

// UserSettings verifies the configured API key and returns its user:
//
//	GET /api/v2/user/verify_auth_code/
//
// All instances share one process-wide guard, so only one user-settings
// request runs at a time. It is also the only operation with a watchdog.
type UserSettings struct {
	*operation[User]
}

// UserSettings returns the live user-settings operation for releaseAtEnd,
// creating it if needed. An instance created with releaseAtEnd is forgotten
// once its container is released.
func (c *Client) UserSettings(releaseAtEnd bool) *UserSettings {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.userSettings[releaseAtEnd]; ok {
		return existing
	}

	u := &UserSettings{}
	u.operation = newOperation[User](c, operationConfig{
		name:         FeatureUserSettings,
		guard:        userSettingsGuard,
		watchdog:     c.opts.userWatchdog,
		releaseAtEnd: releaseAtEnd,
		immediate:    true,
	}, u.buildRequest)
	u.onReleased = func() {
		c.forgetUserSettings(releaseAtEnd, u)
	}

	c.userSettings[releaseAtEnd] = u
	return u
}

func (c *Client) forgetUserSettings(releaseAtEnd bool, u *UserSettings) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userSettings[releaseAtEnd] == u {
		delete(c.userSettings, releaseAtEnd)
	}
}

// Watchdog returns how long a run waits before it is forced to finish
func (u *UserSettings) Watchdog() time.Duration {
	return u.cfg.watchdog
}

// OnComplete sets the callback invoked with the verified user
func (u *UserSettings) OnComplete(fn func(*User)) *UserSettings {
	u.setOnComplete(fn)
	return u
}

// OnError sets the callback invoked with the failure reason
func (u *UserSettings) OnError(fn func(string)) *UserSettings {
	u.setOnError(fn)
	return u
}

// Run starts the request unless a user-settings request is already running
// anywhere in the process, in which case the run is rejected. It returns the
// user from the previous successful run.
//
// The guard is held until the run is disposed, which happens after the
// callbacks and events returned. A Run issued from OnComplete, OnError or an
// event listener is therefore rejected; wait on Done before running again.
func (u *UserSettings) Run(ctx context.Context) *User {
	return u.run(ctx)
}

func (u *UserSettings) buildRequest() (Request, error) {
	return get(u.client.endpoint("/api/v2/user/verify_auth_code/"), u.client.creds).
		authorized(u.client.creds).
		build()
}

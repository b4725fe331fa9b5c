package altura

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

// Tracker reports SDK feature usage to the platform. Its calls are outside
// the outcome of the operation that triggered them: failures are logged and
// otherwise ignored.
type Tracker struct {
	baseURL   string
	creds     Credentials
	transport Transport
	enabled   bool
	logger    zerolog.Logger
}

func newTracker(baseURL string, creds Credentials, transport Transport, enabled bool, logger zerolog.Logger) *Tracker {
	return &Tracker{
		baseURL:   baseURL,
		creds:     creds,
		transport: transport,
		enabled:   enabled,
		logger:    logger,
	}
}

// Enabled reports whether usage calls are sent
func (t *Tracker) Enabled() bool {
	return t.enabled
}

// Track posts a usage ping for feature in the background. The returned
// channel is closed once the ping has settled, or immediately when tracking
// is disabled.
func (t *Tracker) Track(ctx context.Context, feature string) <-chan struct{} {
	done := make(chan struct{})
	if !t.enabled {
		close(done)
		return done
	}

	params := url.Values{}
	params.Set("apiKey", t.creds.APIKey())
	target := t.baseURL + "/api/sdk/unity/" + url.PathEscape(feature) + "?" + params.Encode()

	req, err := newRequest(http.MethodPost, target).
		header("Content-Type", "application/x-www-form-urlencoded").
		rawBody(nil).
		build()
	if err != nil {
		t.logger.Debug().Err(err).Str("feature", feature).Msg("Failed to build usage ping")
		close(done)
		return done
	}

	// The ping must not be cut short when the caller's context ends with the
	// primary request.
	call := t.transport.Dispatch(context.WithoutCancel(ctx), req)

	go func() {
		defer close(done)
		defer call.Release()

		resp, err := call.Result()
		switch {
		case err != nil:
			t.logger.Debug().Err(err).Str("feature", feature).Msg("Usage ping failed")
		case resp == nil:
			t.logger.Debug().Str("feature", feature).Msg("Usage ping returned no response")
		case !resp.OK():
			t.logger.Debug().Int("status", resp.StatusCode).Str("feature", feature).Msg("Usage ping rejected")
		default:
			t.logger.Trace().Str("feature", feature).Msg("Usage ping sent")
		}
	}()

	return done
}

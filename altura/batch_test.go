package altura

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCollections(t *testing.T) {
	var (
		inFlight atomic.Int32
		peak     atomic.Int32
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}

		address := strings.TrimPrefix(r.URL.Path, "/api/v2/collection/")
		if address == "0xBAD" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("not found"))
			return
		}
		w.Write([]byte(`{"id":"` + address + `","name":"Collection ` + address + `"}`))
	}))
	defer server.Close()

	client := newHTTPClient(t, server)
	addresses := []string{"0x1", "0xBAD", "0x3", "0x4", "0x5"}

	results, err := client.FetchCollections(context.Background(), addresses, 2)
	require.NoError(t, err)
	require.Len(t, results, len(addresses))

	for i, result := range results {
		assert.Equal(t, addresses[i], result.Address)
	}

	assert.Equal(t, "Collection 0x1", results[0].Collection.Name)
	assert.Nil(t, results[1].Collection)
	require.NotNil(t, results[1].Failure)
	assert.Equal(t, "Response code: 404. Result not found", results[1].Failure.Reason)
	assert.Equal(t, "0x5", results[4].Collection.ID)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestFetchCollections_Empty(t *testing.T) {
	client := newTestClient(t, &fakeTransport{})

	results, err := client.FetchCollections(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFetchCollections_ContextCancelled(t *testing.T) {
	transport := &fakeTransport{}
	client := newTestClient(t, transport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchCollections(ctx, []string{"0x1"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

package altura

import (
	"context"
	"net/url"
)

// FeatureGetCollection names the collection operation
const FeatureGetCollection = "GetCollection"

// GetCollection fetches one collection by address:
//
//	GET /api/v2/collection/{collection_address}
type GetCollection struct {
	*operation[Collection]

	collectionAddress string
}

// NewGetCollection creates a collection operation. With releaseAtEnd the
// client host is asked to release the operation's container after each run.
func (c *Client) NewGetCollection(releaseAtEnd bool) *GetCollection {
	g := &GetCollection{}
	g.operation = newOperation[Collection](c, operationConfig{
		name:         FeatureGetCollection,
		guard:        NewGuard(),
		telemetry:    c.tracker.Enabled(),
		releaseAtEnd: releaseAtEnd,
	}, g.buildRequest)
	return g
}

// SetParameters sets the collection address. An empty address keeps the current one.
func (g *GetCollection) SetParameters(collectionAddress string) *GetCollection {
	g.mu.Lock()
	defer g.mu.Unlock()

	if collectionAddress != "" {
		g.collectionAddress = collectionAddress
	}
	return g
}

// CollectionAddress returns the configured collection address
func (g *GetCollection) CollectionAddress() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.collectionAddress
}

// OnComplete sets the callback invoked with the decoded collection
func (g *GetCollection) OnComplete(fn func(*Collection)) *GetCollection {
	g.setOnComplete(fn)
	return g
}

// OnError sets the callback invoked with the failure reason
func (g *GetCollection) OnError(fn func(string)) *GetCollection {
	g.setOnError(fn)
	return g
}

// Run starts the request and returns the collection from the previous
// successful run. Use OnComplete to receive the result of this one.
//
// The guard is held until the run is disposed, which happens after the
// callbacks and events returned. A Run issued from OnComplete, OnError or an
// event listener is therefore rejected; wait on Done before running again.
func (g *GetCollection) Run(ctx context.Context) *Collection {
	g.client.logger.Debug().Str("collection", g.CollectionAddress()).Msg("Querying collection")
	return g.run(ctx)
}

func (g *GetCollection) buildRequest() (Request, error) {
	address := g.CollectionAddress()
	return get(g.client.endpoint("/api/v2/collection/"+url.PathEscape(address)), g.client.creds).build()
}

package altura

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Concurrency bounds for FetchCollections
const (
	DefaultBatchConcurrency = 4
	MaxBatchConcurrency     = 16
)

// CollectionResult is the outcome of fetching one collection in a batch
type CollectionResult struct {
	Address    string
	Collection *Collection
	Failure    *Failure
}

// FetchCollections fetches several collections concurrently, each through its
// own GetCollection operation. Results keep the order of addresses. A failed
// fetch is reported in its result and does not stop the others; the returned
// error is only set when ctx ends first.
func (c *Client) FetchCollections(ctx context.Context, addresses []string, concurrency int) ([]CollectionResult, error) {
	results := make([]CollectionResult, len(addresses))
	if len(addresses) == 0 {
		return results, nil
	}

	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}
	concurrency = min(concurrency, MaxBatchConcurrency)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex

	for i, address := range addresses {
		g.Go(func() error {
			op := c.NewGetCollection(false).SetParameters(address)
			op.Run(ctx)
			if err := op.Wait(ctx); err != nil {
				return err
			}

			outcome := op.Outcome()
			if !outcome.OK() {
				c.logger.Warn().
					Str("collection", address).
					Str("reason", outcome.Failure.Reason).
					Msg("Failed to fetch collection")
			}

			mu.Lock()
			results[i] = CollectionResult{
				Address:    address,
				Collection: outcome.Model,
				Failure:    outcome.Failure,
			}
			mu.Unlock()

			return nil
		})
	}

	return results, g.Wait()
}

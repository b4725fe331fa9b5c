package altura

import (
	"context"
	"net/url"
)

// FeatureTransferItems names the transfer operation
const FeatureTransferItems = "TransferItems"

// transferRequest is the JSON body of a transfer
type transferRequest struct {
	ChainID  string `json:"chainId"`
	Address  string `json:"address"`
	TokenIDs string `json:"tokenIds"`
	Amounts  string `json:"amounts"`
	To       string `json:"to"`
}

// TransferItems transfers items of a collection to another wallet:
//
//	POST /api/v2/item/transfer?apiKey={apiKey}
//
// Parameters are sent as given; the platform validates them.
type TransferItems struct {
	*operation[TransferReceipt]

	params transferRequest
}

// NewTransferItems creates a transfer operation
func (c *Client) NewTransferItems(releaseAtEnd bool) *TransferItems {
	t := &TransferItems{}
	t.operation = newOperation[TransferReceipt](c, operationConfig{
		name:         FeatureTransferItems,
		guard:        NewGuard(),
		telemetry:    c.tracker.Enabled(),
		releaseAtEnd: releaseAtEnd,
	}, t.buildRequest)
	return t
}

// SetParameters sets the collection address, token IDs, amounts and the
// destination wallet. Empty values keep the current ones.
func (t *TransferItems) SetParameters(collectionAddress, tokenIDs, amounts, to string) *TransferItems {
	t.mu.Lock()
	defer t.mu.Unlock()

	if collectionAddress != "" {
		t.params.Address = collectionAddress
	}
	if tokenIDs != "" {
		t.params.TokenIDs = tokenIDs
	}
	if amounts != "" {
		t.params.Amounts = amounts
	}
	if to != "" {
		t.params.To = to
	}
	return t
}

// SetChainID sets the chain the collection lives on. An empty value keeps the current one.
func (t *TransferItems) SetChainID(chainID string) *TransferItems {
	t.mu.Lock()
	defer t.mu.Unlock()

	if chainID != "" {
		t.params.ChainID = chainID
	}
	return t
}

// OnComplete sets the callback invoked with the transfer receipt
func (t *TransferItems) OnComplete(fn func(*TransferReceipt)) *TransferItems {
	t.setOnComplete(fn)
	return t
}

// OnError sets the callback invoked with the failure reason
func (t *TransferItems) OnError(fn func(string)) *TransferItems {
	t.setOnError(fn)
	return t
}

// Run starts the transfer and returns the receipt from the previous
// successful run. Use OnComplete to receive the result of this one.
//
// The guard is held until the run is disposed, which happens after the
// callbacks and events returned. A Run issued from OnComplete, OnError or an
// event listener is therefore rejected; wait on Done before running again.
func (t *TransferItems) Run(ctx context.Context) *TransferReceipt {
	return t.run(ctx)
}

func (t *TransferItems) buildRequest() (Request, error) {
	t.mu.Lock()
	body := t.params
	t.mu.Unlock()

	params := url.Values{}
	params.Set("apiKey", t.client.creds.APIKey())

	return post(t.client.endpoint("/api/v2/item/transfer?"+params.Encode()), t.client.creds).
		jsonBody(body).
		build()
}

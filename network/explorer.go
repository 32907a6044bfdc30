package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ExplorerClient fetches transactions from a public block explorer's REST
// API, as an alternative read path when no node RPC is available. Payload
// verification only needs the output scripts, so the response mapping is
// deliberately narrow.
type ExplorerClient struct {
	baseURL string
	client  *http.Client
}

// ExplorerOutput is one transaction output as reported by the explorer.
type ExplorerOutput struct {
	Value        uint64 `json:"value"`
	ScriptPubKey string `json:"script_pub_key"`
}

// ExplorerTx is the subset of the explorer's transaction record the
// verifier consumes.
type ExplorerTx struct {
	TxID          string           `json:"transaction_id"`
	Confirmations int64            `json:"confirmations"`
	Outputs       []ExplorerOutput `json:"outputs"`
}

// NewExplorerClient creates a client for the explorer at baseURL
// (e.g. "https://explorer.example.org/api").
func NewExplorerClient(baseURL string) *ExplorerClient {
	return &ExplorerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// TxURL returns the human-facing explorer URL for a transaction, used to
// populate the AnchoredTransaction record.
func (c *ExplorerClient) TxURL(txid string) string {
	return fmt.Sprintf("%s/txs/%s", c.baseURL, txid)
}

// GetTransaction fetches a transaction by id. A 404 from the explorer is
// returned as ErrTxNotFound; the transaction may simply not be indexed yet.
func (c *ExplorerClient) GetTransaction(ctx context.Context, txid string) (*ExplorerTx, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.TxURL(txid), nil)
	if err != nil {
		return nil, fmt.Errorf("network: create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrTxNotFound, txid)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: HTTP %d", ErrConnectionFailed, resp.StatusCode)
	}

	var tx ExplorerTx
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return nil, fmt.Errorf("%w: decode explorer response: %w", ErrInvalidResponse, err)
	}
	return &tx, nil
}

package network

import (
	"context"
	"encoding/hex"
	"fmt"
	"math"
)

// Compile-time interface check.
var _ BlockchainService = (*RPCClient)(nil)

// btcToSat converts a coin-denominated float64 amount (as returned by the
// RPC node) to satoshis. It uses math.Round to avoid floating-point
// truncation issues.
func btcToSat(btc float64) uint64 {
	return uint64(math.Round(btc * 1e8))
}

// listUnspentResult maps the JSON fields returned by the listunspent call.
type listUnspentResult struct {
	TxID          string  `json:"txid"`
	Vout          uint32  `json:"vout"`
	Amount        float64 `json:"amount"`
	ScriptPubKey  string  `json:"scriptPubKey"`
	Address       string  `json:"address"`
	Confirmations int64   `json:"confirmations"`
}

// ListUnspent returns all unspent transaction outputs for the given address.
// It calls `listunspent 0 9999999 ["address"]` and converts coin amounts
// to satoshis.
func (c *RPCClient) ListUnspent(ctx context.Context, address string) ([]*UTXO, error) {
	params := []interface{}{0, 9999999, []string{address}}
	var results []listUnspentResult
	if err := c.Call(ctx, "listunspent", params, &results); err != nil {
		return nil, err
	}

	utxos := make([]*UTXO, len(results))
	for i, r := range results {
		utxos[i] = &UTXO{
			TxID:          r.TxID,
			Vout:          r.Vout,
			Amount:        btcToSat(r.Amount),
			ScriptPubKey:  r.ScriptPubKey,
			Address:       r.Address,
			Confirmations: r.Confirmations,
		}
	}
	return utxos, nil
}

// BroadcastTx submits a raw transaction hex and returns the txid.
// It calls `sendrawtransaction "hex"` -- the bare-string parameter shape.
// RPC errors are wrapped with ErrBroadcastRejected.
func (c *RPCClient) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	params := []interface{}{rawTxHex}
	var txid string
	if err := c.Call(ctx, "sendrawtransaction", params, &txid); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBroadcastRejected, err)
	}
	return txid, nil
}

// BroadcastTxWrapped submits a raw transaction using the wrapped object
// parameter shape, `sendrawtransaction {"hex": "..."}`, which some node
// versions expect instead of the bare string.
func (c *RPCClient) BroadcastTxWrapped(ctx context.Context, rawTxHex string) (string, error) {
	params := []interface{}{map[string]string{"hex": rawTxHex}}
	var txid string
	if err := c.Call(ctx, "sendrawtransaction", params, &txid); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBroadcastRejected, err)
	}
	return txid, nil
}

// GetRawTx returns the raw transaction bytes for the given txid.
// It calls `getrawtransaction "txid" false` (non-verbose) to get the
// hex-encoded transaction and decodes it to bytes. An unknown txid is
// reported as ErrTxNotFound.
func (c *RPCClient) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	params := []interface{}{txid, false}
	var rawHex string
	if err := c.Call(ctx, "getrawtransaction", params, &rawHex); err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid tx hex: %v", ErrInvalidResponse, err)
	}
	return data, nil
}

// verboseTxResult maps the JSON fields from getrawtransaction with verbose=true.
type verboseTxResult struct {
	Confirmations int64  `json:"confirmations"`
	BlockHash     string `json:"blockhash"`
	BlockHeight   uint64 `json:"blockheight"`
}

// GetTxStatus returns the confirmation status of a transaction.
// It calls `getrawtransaction "txid" true` (verbose mode).
func (c *RPCClient) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	params := []interface{}{txid, true}
	var result verboseTxResult
	if err := c.Call(ctx, "getrawtransaction", params, &result); err != nil {
		return nil, err
	}
	return &TxStatus{
		Confirmed:     result.Confirmations > 0,
		Confirmations: result.Confirmations,
		BlockHash:     result.BlockHash,
		BlockHeight:   result.BlockHeight,
	}, nil
}

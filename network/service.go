package network

import "context"

// BlockchainService is the node-facing interface of the anchoring
// pipeline: UTXO lookup for the funding address, transaction submission
// in both call shapes, and transaction read-back for verification.
type BlockchainService interface {
	// ListUnspent returns all unspent transaction outputs for the given address.
	ListUnspent(ctx context.Context, address string) ([]*UTXO, error)

	// BroadcastTx submits a raw transaction hex to the network and returns
	// the txid. Uses the bare-string parameter shape.
	BroadcastTx(ctx context.Context, rawTxHex string) (string, error)

	// BroadcastTxWrapped submits the same transaction using the wrapped
	// object parameter shape ({"hex": ...}) accepted by some node versions.
	BroadcastTxWrapped(ctx context.Context, rawTxHex string) (string, error)

	// GetRawTx returns the raw transaction bytes for the given txid.
	// Returns ErrTxNotFound when the node does not know the transaction.
	GetRawTx(ctx context.Context, txid string) ([]byte, error)

	// GetTxStatus returns the confirmation status of a transaction.
	GetTxStatus(ctx context.Context, txid string) (*TxStatus, error)
}

// UTXO represents an unspent transaction output as reported by the node.
type UTXO struct {
	TxID          string `json:"txid"`
	Vout          uint32 `json:"vout"`
	Amount        uint64 `json:"amount"` // satoshis
	ScriptPubKey  string `json:"script_pubkey"`
	Address       string `json:"address"`
	Confirmations int64  `json:"confirmations"`
}

// TxStatus represents the confirmation status of a transaction.
type TxStatus struct {
	Confirmed     bool   `json:"confirmed"`
	Confirmations int64  `json:"confirmations"`
	BlockHash     string `json:"block_hash"`
	BlockHeight   uint64 `json:"block_height"`
}

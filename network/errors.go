package network

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the node
	// or explorer. Treated as transient by the anchoring cycle.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrTxNotFound indicates the requested transaction is not known to
	// the node or explorer (possibly not yet indexed).
	ErrTxNotFound = errors.New("network: transaction not found")

	// ErrBroadcastRejected indicates the node rejected the submitted
	// transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrInvalidResponse indicates the node returned a malformed or
	// unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")
)

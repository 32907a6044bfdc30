package anchor

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("anchor: required parameter is nil")

	// ErrInvalidInterval indicates the scheduler interval is zero or negative.
	ErrInvalidInterval = errors.New("anchor: interval must be positive")

	// ErrCycleInFlight indicates an anchoring cycle is already running;
	// the caller's tick is skipped, never overlapped.
	ErrCycleInFlight = errors.New("anchor: cycle already in flight")

	// ErrBroadcastFailed indicates both submission shapes were rejected.
	// The queue is left (or put back) intact for the next tick.
	ErrBroadcastFailed = errors.New("anchor: broadcast failed")

	// ErrNotYetIndexed indicates the transaction is not visible on the
	// network yet. A pending outcome, not a verification failure.
	ErrNotYetIndexed = errors.New("anchor: transaction not yet indexed")

	// ErrNoPayload indicates the transaction carries no data output.
	ErrNoPayload = errors.New("anchor: no data-carrying output in transaction")

	// ErrNoBackend indicates the verifier has neither a node client nor
	// an explorer client configured.
	ErrNoBackend = errors.New("anchor: no node or explorer client configured")
)

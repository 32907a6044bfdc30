package queue

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("queue: required parameter is nil")

	// ErrInvalidRecord indicates a pending record fails validation.
	ErrInvalidRecord = errors.New("queue: invalid pending record")

	// ErrDuplicatePending indicates an immediate-mode hash is already
	// queued; leaves are pure functions of their events, so this marks a
	// re-submitted event rather than a new one.
	ErrDuplicatePending = errors.New("queue: hash already pending")

	// ErrAnchorExists indicates the anchored log already holds this txid.
	ErrAnchorExists = errors.New("queue: anchored transaction already recorded")

	// ErrAnchorNotFound indicates no anchored record exists for the txid.
	ErrAnchorNotFound = errors.New("queue: anchored transaction not found")
)

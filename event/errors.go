package event

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("event: required parameter is nil")

	// ErrInvalidEvent indicates the event is missing identifying fields.
	ErrInvalidEvent = errors.New("event: invalid event")
)

package billing

import "errors"

var (
	// ErrUnknownTier indicates the company tier is not in the policy table.
	ErrUnknownTier = errors.New("billing: unknown company tier")

	// ErrUnknownPriority indicates the event priority is not recognized.
	ErrUnknownPriority = errors.New("billing: unknown event priority")
)

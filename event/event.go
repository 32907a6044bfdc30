// Package event defines the supply-chain event model and the canonical
// leaf encoding used by the anchoring pipeline.
//
// An Event is produced by the API layer and is immutable once handed to
// the pipeline. Its leaf hash is a pure function of the identifying
// fields, so re-submitting the same event always yields the same leaf.
package event

import (
	"encoding/json"
	"fmt"
)

// AnchorMode selects how an event reaches the chain.
type AnchorMode string

const (
	// ModeImmediate anchors the event's own hash (or full JSON) as its own
	// root, bypassing Merkle batching. Low latency, higher cost.
	ModeImmediate AnchorMode = "immediate"

	// ModeBatch folds the event into the next scheduled Merkle cycle.
	ModeBatch AnchorMode = "batch"
)

// Valid reports whether m is a known anchoring mode.
func (m AnchorMode) Valid() bool {
	return m == ModeImmediate || m == ModeBatch
}

// Event is one discrete supply-chain event (harvest, ship, quality-check...).
type Event struct {
	EventID   string          `json:"event_id"`
	CompanyID string          `json:"company_id"`
	EventType string          `json:"event_type"`
	TagID     string          `json:"tag_id"` // product/tag identifier, may be empty
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"` // unix seconds
	Mode      AnchorMode      `json:"anchoring_mode"`
}

// Validate checks the fields required for leaf encoding.
func (e *Event) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: event", ErrNilParam)
	}
	if e.CompanyID == "" {
		return fmt.Errorf("%w: company id", ErrInvalidEvent)
	}
	if e.EventType == "" {
		return fmt.Errorf("%w: event type", ErrInvalidEvent)
	}
	if e.Timestamp <= 0 {
		return fmt.Errorf("%w: timestamp", ErrInvalidEvent)
	}
	return nil
}

// CanonicalJSON returns the stable JSON form of the event, used when a
// single event's full content is anchored in immediate mode. Field order
// is fixed by the struct definition, so the output is deterministic.
func CanonicalJSON(e *Event) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	return data, nil
}

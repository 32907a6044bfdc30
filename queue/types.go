package queue

import (
	"fmt"

	"github.com/anchorgrid/libanchor-go/event"
)

// ImmediateMeta is the metadata carried by an immediate-mode pending record.
type ImmediateMeta struct {
	EventID      string `json:"event_id"`
	CompanyID    string `json:"company_id"`
	PriorityTier string `json:"priority_tier"`
}

// BatchMeta is the metadata carried by a batch-mode pending record.
type BatchMeta struct {
	EventCount int      `json:"event_count"`
	CompanyIDs []string `json:"company_ids"`
}

// PendingRecord is one queued leaf (or pre-aggregated root) awaiting
// anchoring. Records are stored append-only and consumed as an atomic
// unit per anchoring cycle.
type PendingRecord struct {
	Kind      event.AnchorMode `json:"kind"`
	Hash      event.Leaf       `json:"hash"`
	Timestamp int64            `json:"timestamp"`

	// Payload optionally carries the full canonical event JSON for
	// immediate-mode records that anchor content rather than a hash.
	Payload []byte `json:"payload,omitempty"`

	Immediate *ImmediateMeta `json:"immediate,omitempty"`
	Batch     *BatchMeta     `json:"batch,omitempty"`
}

// Validate checks the record's mode/metadata pairing.
func (r *PendingRecord) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: record", ErrNilParam)
	}
	switch r.Kind {
	case event.ModeImmediate:
		if r.Immediate == nil {
			return fmt.Errorf("%w: immediate record needs immediate metadata", ErrInvalidRecord)
		}
	case event.ModeBatch:
		if r.Batch == nil {
			return fmt.Errorf("%w: batch record needs batch metadata", ErrInvalidRecord)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, r.Kind)
	}
	if r.Timestamp <= 0 {
		return fmt.Errorf("%w: timestamp", ErrInvalidRecord)
	}
	return nil
}

// NewImmediateRecord builds a pending record that anchors one event on
// its own. payload optionally carries the full canonical JSON to put
// on-chain; when nil, the leaf hash itself is anchored.
func NewImmediateRecord(e *event.Event, hash event.Leaf, priorityTier string, payload []byte) *PendingRecord {
	return &PendingRecord{
		Kind:      event.ModeImmediate,
		Hash:      hash,
		Timestamp: e.Timestamp,
		Payload:   payload,
		Immediate: &ImmediateMeta{
			EventID:      e.EventID,
			CompanyID:    e.CompanyID,
			PriorityTier: priorityTier,
		},
	}
}

// NewBatchRecord builds a pending record folded into the next Merkle
// cycle.
func NewBatchRecord(e *event.Event, hash event.Leaf) *PendingRecord {
	return &PendingRecord{
		Kind:      event.ModeBatch,
		Hash:      hash,
		Timestamp: e.Timestamp,
		Batch: &BatchMeta{
			EventCount: 1,
			CompanyIDs: []string{e.CompanyID},
		},
	}
}

// Anchoring outcome status values.
const (
	StatusBroadcast = "broadcast"
	StatusConfirmed = "confirmed"
)

// AnchoredTransaction records one successful broadcast. The log is
// append-only; entries are never mutated.
type AnchoredTransaction struct {
	Hash        event.Leaf `json:"hash"` // Merkle root or single-event hash
	TxID        string     `json:"txid"`
	Timestamp   int64      `json:"timestamp"`
	ExplorerURL string     `json:"explorer_url"`
	Status      string     `json:"status"`
}

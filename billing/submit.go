package billing

import (
	"github.com/anchorgrid/libanchor-go/event"
	"github.com/anchorgrid/libanchor-go/queue"
)

// Submit is the producer-side entry point: quote the event, build the
// matching pending record, and enqueue it for the next anchoring cycle.
// The returned EventQuote ({mode, cost, hash}) goes back to the API
// caller for invoicing.
//
// anchorContent controls what an immediate-mode anchor puts on-chain:
// the full canonical event JSON when true, the leaf hash when false.
// Batch-mode events always anchor through the Merkle root.
func Submit(store *queue.Store, tier CompanyTier, priority EventPriority, e *event.Event, anchorContent bool) (*EventQuote, error) {
	eq, err := QuoteEvent(tier, priority, e)
	if err != nil {
		return nil, err
	}

	var rec *queue.PendingRecord
	switch eq.Mode {
	case event.ModeImmediate:
		var payload []byte
		if anchorContent {
			payload, err = event.CanonicalJSON(e)
			if err != nil {
				return nil, err
			}
		}
		rec = queue.NewImmediateRecord(e, eq.Hash, string(tier), payload)
	default:
		rec = queue.NewBatchRecord(e, eq.Hash)
	}

	if err := store.Enqueue(rec); err != nil {
		return nil, err
	}
	return eq, nil
}

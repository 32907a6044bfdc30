// Package billing maps a (company tier, event priority) pair to an
// anchoring mode and a billable cost. The policy is consulted by
// producers before enqueueing, never by the scheduler.
package billing

import (
	"fmt"

	"github.com/anchorgrid/libanchor-go/event"
)

// CompanyTier is the subscription level of the emitting company.
type CompanyTier string

const (
	TierStandard   CompanyTier = "standard"
	TierPremium    CompanyTier = "premium"
	TierEnterprise CompanyTier = "enterprise"
)

// EventPriority is the per-event latency requirement declared by the producer.
type EventPriority string

const (
	PriorityNormal EventPriority = "normal"
	PriorityHigh   EventPriority = "high"
)

// Quote is the billing outcome for one event.
type Quote struct {
	Mode event.AnchorMode `json:"mode"`
	Cost uint64           `json:"cost"` // satoshis, invoiced to the company
}

// Immediate anchoring carries the full transaction cost; batched events
// share one transaction, so they are billed a fraction of it.
var tierTable = map[CompanyTier]map[EventPriority]Quote{
	TierStandard: {
		PriorityNormal: {Mode: event.ModeBatch, Cost: 250},
		PriorityHigh:   {Mode: event.ModeImmediate, Cost: 2500},
	},
	TierPremium: {
		PriorityNormal: {Mode: event.ModeBatch, Cost: 100},
		PriorityHigh:   {Mode: event.ModeImmediate, Cost: 1000},
	},
	TierEnterprise: {
		PriorityNormal: {Mode: event.ModeBatch, Cost: 50},
		PriorityHigh:   {Mode: event.ModeImmediate, Cost: 500},
	},
}

// QuoteFor returns the anchoring mode and cost for a tier/priority pair.
// Pure: same inputs always produce the same quote.
func QuoteFor(tier CompanyTier, priority EventPriority) (Quote, error) {
	byPriority, ok := tierTable[tier]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	q, ok := byPriority[priority]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownPriority, priority)
	}
	return q, nil
}

// EventQuote pairs a quote with the event's leaf hash, the full response
// the API collaborator needs per event for invoicing.
type EventQuote struct {
	Quote
	Hash event.Leaf `json:"hash"`
}

// QuoteEvent computes the quote and the leaf hash for one event in a
// single call.
func QuoteEvent(tier CompanyTier, priority EventPriority, e *event.Event) (*EventQuote, error) {
	q, err := QuoteFor(tier, priority)
	if err != nil {
		return nil, err
	}
	leaf, err := event.NewLeaf(e)
	if err != nil {
		return nil, err
	}
	return &EventQuote{Quote: q, Hash: leaf}, nil
}

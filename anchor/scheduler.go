package anchor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anchorgrid/libanchor-go/event"
	"github.com/anchorgrid/libanchor-go/merkle"
	"github.com/anchorgrid/libanchor-go/queue"
)

// Scheduler is the single periodic driver of the anchoring pipeline.
// Exactly one cycle may be in flight system-wide; a tick that finds a
// cycle running is skipped, never queued behind it.
type Scheduler struct {
	store       *queue.Store
	broadcaster *Broadcaster
	interval    time.Duration
	running     atomic.Bool
	log         *logrus.Entry
}

// NewScheduler wires a scheduler. logger nil falls back to the standard
// logrus logger.
func NewScheduler(store *queue.Store, broadcaster *Broadcaster, interval time.Duration, logger *logrus.Logger) (*Scheduler, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store", ErrNilParam)
	}
	if broadcaster == nil {
		return nil, fmt.Errorf("%w: broadcaster", ErrNilParam)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		store:       store,
		broadcaster: broadcaster,
		interval:    interval,
		log:         logger.WithField("component", "scheduler"),
	}, nil
}

// Run ticks at the configured interval until ctx is cancelled. Cycle
// failures are logged and converted into a requeue by Tick; they do not
// stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				if err == ErrCycleInFlight {
					s.log.Debug("previous cycle still running, tick skipped")
					continue
				}
				s.log.WithError(err).Error("anchoring cycle failed, queue requeued")
			}
		}
	}
}

// Tick runs one full anchoring cycle: drain the queue, anchor every
// immediate record individually, fold the batch records into one Merkle
// root and anchor it. An empty queue returns immediately with zero
// network activity. On any failure the unanchored records are put back
// so nothing is lost; records already accepted by the node stay final.
func (s *Scheduler) Tick(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrCycleInFlight
	}
	defer s.running.Store(false)

	records, err := s.store.DrainAll()
	if err != nil {
		return fmt.Errorf("anchor: drain queue: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	var immediate, batch []*queue.PendingRecord
	for _, rec := range records {
		if rec.Kind == event.ModeImmediate {
			immediate = append(immediate, rec)
		} else {
			batch = append(batch, rec)
		}
	}

	s.log.WithFields(logrus.Fields{
		"immediate": len(immediate),
		"batch":     len(batch),
	}).Info("anchoring cycle started")

	// Immediate records first: each is its own root.
	for i, rec := range immediate {
		payload := rec.Payload
		if len(payload) == 0 {
			payload = rec.Hash[:]
		}
		if _, err := s.broadcaster.Broadcast(ctx, payload, rec.Hash); err != nil {
			remaining := make([]*queue.PendingRecord, 0, len(immediate)-i+len(batch))
			remaining = append(remaining, immediate[i:]...)
			remaining = append(remaining, batch...)
			s.requeue(remaining)
			return fmt.Errorf("anchor: immediate anchor %d of %d: %w", i+1, len(immediate), err)
		}
	}

	// Batch records fold into one root per cycle, in queue order.
	if len(batch) > 0 {
		leaves := make([]event.Leaf, len(batch))
		for i, rec := range batch {
			leaves[i] = rec.Hash
		}
		root, err := merkle.Root(leaves)
		if err != nil {
			s.requeue(batch)
			return fmt.Errorf("anchor: build root: %w", err)
		}
		if _, err := s.broadcaster.Broadcast(ctx, root[:], root); err != nil {
			s.requeue(batch)
			return fmt.Errorf("anchor: batch anchor of %d leaves: %w", len(batch), err)
		}
	}

	s.log.Info("anchoring cycle finished")
	return nil
}

// requeue puts unanchored records back for the next tick. A requeue
// failure is the one place data loss is possible, so it is logged loudly
// rather than returned over the cycle error.
func (s *Scheduler) requeue(records []*queue.PendingRecord) {
	if err := s.store.Requeue(records); err != nil {
		s.log.WithError(err).WithField("records", len(records)).
			Error("REQUEUE FAILED: drained records could not be restored")
	}
}

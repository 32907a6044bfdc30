// Package anchor drives the anchoring pipeline: the Broadcaster turns a
// payload into a funded, signed, submitted transaction; the Scheduler
// runs one cycle at a time on a timer; the Verifier reads anchored
// payloads back from the chain.
package anchor

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anchorgrid/libanchor-go/event"
	"github.com/anchorgrid/libanchor-go/network"
	"github.com/anchorgrid/libanchor-go/queue"
	"github.com/anchorgrid/libanchor-go/tx"
	"github.com/anchorgrid/libanchor-go/wallet"
)

// Broadcaster builds, signs, and submits anchoring transactions for the
// funding wallet, and records each success in the anchored log.
type Broadcaster struct {
	svc      network.BlockchainService
	signer   *wallet.Signer
	store    *queue.Store
	explorer *network.ExplorerClient // optional, for explorer URLs
	fee      uint64
	log      *logrus.Entry

	// The node's unspent view lags its own acceptance of a submission, so
	// the broadcaster keeps its own memory of outpoints consumed by
	// accepted transactions and of their change outputs, until the node's
	// listing reflects them.
	mu      sync.Mutex
	spent   map[string]struct{}
	chained map[string]*tx.UTXO
}

// NewBroadcaster wires a broadcaster. explorer may be nil; logger nil
// falls back to the standard logrus logger.
func NewBroadcaster(svc network.BlockchainService, signer *wallet.Signer, store *queue.Store,
	explorer *network.ExplorerClient, fee uint64, logger *logrus.Logger) (*Broadcaster, error) {
	if svc == nil {
		return nil, fmt.Errorf("%w: blockchain service", ErrNilParam)
	}
	if signer == nil {
		return nil, fmt.Errorf("%w: signer", ErrNilParam)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store", ErrNilParam)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Broadcaster{
		svc:      svc,
		signer:   signer,
		store:    store,
		explorer: explorer,
		fee:      fee,
		log:      logger.WithField("component", "broadcaster"),
		spent:    make(map[string]struct{}),
		chained:  make(map[string]*tx.UTXO),
	}, nil
}

func outpoint(txid []byte, vout uint32) string {
	return fmt.Sprintf("%x:%d", txid, vout)
}

// reconcile adjusts the node's unspent listing with the broadcaster's own
// memory: outpoints consumed by an already-accepted transaction are
// filtered out, and change outputs of accepted transactions are offered
// for spending before the node indexes them. Once the node's listing
// catches up (a spent outpoint disappears, a change output appears), the
// corresponding memory is dropped.
func (b *Broadcaster) reconcile(fetched []*tx.UTXO) []*tx.UTXO {
	b.mu.Lock()
	defer b.mu.Unlock()

	reported := make(map[string]struct{}, len(fetched))
	for _, u := range fetched {
		reported[outpoint(u.TxID, u.Vout)] = struct{}{}
	}

	for key := range b.spent {
		if _, ok := reported[key]; !ok {
			delete(b.spent, key)
		}
	}

	out := make([]*tx.UTXO, 0, len(fetched)+len(b.chained))
	for _, u := range fetched {
		if _, stale := b.spent[outpoint(u.TxID, u.Vout)]; stale {
			continue
		}
		out = append(out, u)
	}
	for key, u := range b.chained {
		if _, ok := reported[key]; ok {
			delete(b.chained, key)
			continue
		}
		out = append(out, u)
	}
	return out
}

// markAccepted records the outpoints a just-accepted transaction consumed
// and its change output, so a later broadcast in the same cycle cannot
// select them again.
func (b *Broadcaster) markAccepted(inputs []*tx.UTXO, change *tx.UTXO) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range inputs {
		key := outpoint(u.TxID, u.Vout)
		b.spent[key] = struct{}{}
		delete(b.chained, key)
	}
	if change != nil {
		b.chained[outpoint(change.TxID, change.Vout)] = change
	}
}

// Broadcast anchors one payload (a Merkle root or a canonical event JSON)
// on-chain. hash is the value recorded in the anchored log: the root for
// batch cycles, the event leaf for immediate anchors.
//
// Submission is attempted with the bare-string call shape first and, on
// failure, retried exactly once with the wrapped object shape some node
// versions require. If both fail the error wraps ErrBroadcastFailed and
// nothing is recorded; a transaction the node accepted is final and is
// never resubmitted.
//
// Funding selection excludes outpoints already consumed by an accepted
// transaction in the same cycle and may spend that transaction's change
// before the node indexes it, so consecutive broadcasts never
// double-spend while the node's unspent view lags.
func (b *Broadcaster) Broadcast(ctx context.Context, payload []byte, hash event.Leaf) (*queue.AnchoredTransaction, error) {
	address := b.signer.Address()

	nodeUTXOs, err := b.svc.ListUnspent(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("anchor: utxo lookup for %s: %w", address, err)
	}

	spendable, err := toTxUTXOs(nodeUTXOs)
	if err != nil {
		return nil, err
	}
	spendable = b.reconcile(spendable)

	// Pure data anchor: target 0, everything above the fee is change.
	sel, err := tx.SelectUTXOs(spendable, 0, b.fee)
	if err != nil {
		return nil, err
	}

	atx, err := tx.BuildAnchorTx(&tx.AnchorTxParams{
		Payload:   payload,
		Selection: sel,
		ChangePKH: b.signer.PublicKeyHash(),
	})
	if err != nil {
		return nil, err
	}

	rawHex, err := tx.SignAnchorTx(atx, sel.Inputs, b.signer.PrivateKey())
	if err != nil {
		return nil, err
	}

	txid, err := b.svc.BroadcastTx(ctx, rawHex)
	if err != nil {
		b.log.WithError(err).Warn("bare-shape submission rejected, retrying with wrapped shape")
		var wrappedErr error
		txid, wrappedErr = b.svc.BroadcastTxWrapped(ctx, rawHex)
		if wrappedErr != nil {
			return nil, fmt.Errorf("%w: bare shape: %v; wrapped shape: %v", ErrBroadcastFailed, err, wrappedErr)
		}
	}
	b.markAccepted(sel.Inputs, atx.ChangeUTXO)

	rec := &queue.AnchoredTransaction{
		Hash:      hash,
		TxID:      txid,
		Timestamp: time.Now().Unix(),
		Status:    queue.StatusBroadcast,
	}
	if b.explorer != nil {
		rec.ExplorerURL = b.explorer.TxURL(txid)
	}

	if err := b.store.AppendAnchored(rec); err != nil {
		// The transaction is on the network regardless; surface the
		// bookkeeping failure but do not resubmit.
		if !errors.Is(err, queue.ErrAnchorExists) {
			return rec, fmt.Errorf("anchor: record anchored tx %s: %w", txid, err)
		}
	}

	b.log.WithFields(logrus.Fields{
		"txid":    txid,
		"payload": len(payload),
		"inputs":  len(sel.Inputs),
		"change":  sel.Change,
	}).Info("anchored payload")

	return rec, nil
}

// toTxUTXOs converts node-reported UTXOs into the builder's form.
func toTxUTXOs(utxos []*network.UTXO) ([]*tx.UTXO, error) {
	out := make([]*tx.UTXO, len(utxos))
	for i, u := range utxos {
		txid, err := hex.DecodeString(u.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: utxo txid %q: %v", network.ErrInvalidResponse, u.TxID, err)
		}
		scriptBytes, err := hex.DecodeString(u.ScriptPubKey)
		if err != nil {
			return nil, fmt.Errorf("%w: utxo script for %s: %v", network.ErrInvalidResponse, u.TxID, err)
		}
		out[i] = &tx.UTXO{
			TxID:         txid,
			Vout:         u.Vout,
			Amount:       u.Amount,
			ScriptPubKey: scriptBytes,
		}
	}
	return out, nil
}

package anchor

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/transaction"

	"github.com/anchorgrid/libanchor-go/network"
	"github.com/anchorgrid/libanchor-go/tx"
)

// VerifyOutcome is the read-back proof for one anchored transaction.
type VerifyOutcome struct {
	TxID          string `json:"txid"`
	Payload       []byte `json:"payload"` // decoded root hash or event JSON
	Confirmed     bool   `json:"confirmed"`
	Confirmations int64  `json:"confirmations"`
}

// Verifier recovers anchored payloads from the chain, independent of the
// pipeline's own database. It reads through the node when one is
// configured and falls back to the public explorer otherwise.
type Verifier struct {
	svc      network.BlockchainService
	explorer *network.ExplorerClient
}

// NewVerifier creates a verifier. Either client may be nil, but not both.
func NewVerifier(svc network.BlockchainService, explorer *network.ExplorerClient) (*Verifier, error) {
	if svc == nil && explorer == nil {
		return nil, ErrNoBackend
	}
	return &Verifier{svc: svc, explorer: explorer}, nil
}

// Verify fetches the transaction, scans its outputs for the data-carrying
// script, and decodes the embedded payload. A transaction the network
// does not know yet is reported as ErrNotYetIndexed -- a pending outcome,
// distinct from a connectivity failure or a malformed script.
func (v *Verifier) Verify(ctx context.Context, txid string) (*VerifyOutcome, error) {
	if v.svc != nil {
		return v.verifyViaNode(ctx, txid)
	}
	return v.verifyViaExplorer(ctx, txid)
}

func (v *Verifier) verifyViaNode(ctx context.Context, txid string) (*VerifyOutcome, error) {
	raw, err := v.svc.GetRawTx(ctx, txid)
	if err != nil {
		if errors.Is(err, network.ErrTxNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotYetIndexed, txid)
		}
		return nil, fmt.Errorf("anchor: fetch tx %s: %w", txid, err)
	}

	sdkTx, err := transaction.NewTransactionFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse tx %s: %v", network.ErrInvalidResponse, txid, err)
	}

	scripts := make([][]byte, len(sdkTx.Outputs))
	for i, out := range sdkTx.Outputs {
		scripts[i] = []byte(*out.LockingScript)
	}
	payload, err := findPayload(scripts)
	if err != nil {
		return nil, fmt.Errorf("anchor: tx %s: %w", txid, err)
	}

	outcome := &VerifyOutcome{TxID: txid, Payload: payload}

	// Confirmation status is best-effort; the payload proof stands alone.
	if status, err := v.svc.GetTxStatus(ctx, txid); err == nil {
		outcome.Confirmed = status.Confirmed
		outcome.Confirmations = status.Confirmations
	}
	return outcome, nil
}

func (v *Verifier) verifyViaExplorer(ctx context.Context, txid string) (*VerifyOutcome, error) {
	etx, err := v.explorer.GetTransaction(ctx, txid)
	if err != nil {
		if errors.Is(err, network.ErrTxNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotYetIndexed, txid)
		}
		return nil, fmt.Errorf("anchor: fetch tx %s from explorer: %w", txid, err)
	}

	scripts := make([][]byte, 0, len(etx.Outputs))
	for _, out := range etx.Outputs {
		sb, err := hex.DecodeString(out.ScriptPubKey)
		if err != nil {
			return nil, fmt.Errorf("%w: output script hex: %v", network.ErrInvalidResponse, err)
		}
		scripts = append(scripts, sb)
	}
	payload, err := findPayload(scripts)
	if err != nil {
		return nil, fmt.Errorf("anchor: tx %s: %w", txid, err)
	}

	return &VerifyOutcome{
		TxID:          txid,
		Payload:       payload,
		Confirmed:     etx.Confirmations > 0,
		Confirmations: etx.Confirmations,
	}, nil
}

// findPayload scans output scripts for the first OP_RETURN-tagged one and
// decodes its payload. Decode failures are fatal, not skipped: an anchor
// transaction carries exactly one well-formed data output.
func findPayload(scripts [][]byte) ([]byte, error) {
	for _, sb := range scripts {
		ok, offset := tx.IsOPReturn(sb)
		if !ok {
			continue
		}
		return tx.DecodeOPReturn(sb[offset:])
	}
	return nil, ErrNoPayload
}

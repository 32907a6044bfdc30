package tx

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// SignAnchorTx signs all inputs of an anchoring transaction with the
// funding wallet's key.
//
// The utxos slice must match the transaction inputs by position
// (utxos[i] funds input i) and carry the locking scripts the inputs
// spend. On success the AnchorTx is updated in place with the signed
// bytes and transaction id, and the signed hex is returned for
// submission.
func SignAnchorTx(atx *AnchorTx, utxos []*UTXO, key *ec.PrivateKey) (string, error) {
	if atx == nil {
		return "", fmt.Errorf("%w: AnchorTx", ErrNilParam)
	}
	if len(atx.RawTx) == 0 {
		return "", fmt.Errorf("%w: RawTx is empty", ErrSigningFailed)
	}
	if key == nil {
		return "", fmt.Errorf("%w: signing key", ErrNilParam)
	}

	sdkTx, err := transaction.NewTransactionFromBytes(atx.RawTx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse raw tx: %w", ErrSigningFailed, err)
	}

	if len(utxos) != len(sdkTx.Inputs) {
		return "", fmt.Errorf("%w: have %d UTXOs but tx has %d inputs",
			ErrSigningFailed, len(utxos), len(sdkTx.Inputs))
	}

	unlocker, err := p2pkh.Unlock(key, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create unlocker: %w", ErrSigningFailed, err)
	}

	for i, u := range utxos {
		if u == nil {
			return "", fmt.Errorf("%w: utxo[%d] is nil", ErrNilParam, i)
		}
		if len(u.ScriptPubKey) == 0 {
			return "", fmt.Errorf("%w: utxo[%d] has empty ScriptPubKey", ErrSigningFailed, i)
		}

		sdkTx.Inputs[i].SetSourceTxOutput(&transaction.TransactionOutput{
			Satoshis:      u.Amount,
			LockingScript: script.NewFromBytes(u.ScriptPubKey),
		})
		sdkTx.Inputs[i].UnlockingScriptTemplate = unlocker
	}

	if err := sdkTx.Sign(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	atx.RawTx = sdkTx.Bytes()
	atx.TxID = sdkTx.TxID().CloneBytes()
	if atx.ChangeUTXO != nil {
		atx.ChangeUTXO.TxID = atx.TxID
	}

	return sdkTx.Hex(), nil
}

// BuildP2PKHScript creates a P2PKH locking script for the given public key.
// Returns the raw script bytes suitable for use as UTXO.ScriptPubKey.
func BuildP2PKHScript(pubKey *ec.PublicKey) ([]byte, error) {
	if pubKey == nil {
		return nil, fmt.Errorf("%w: public key", ErrNilParam)
	}
	addr, err := script.NewAddressFromPublicKey(pubKey, true)
	if err != nil {
		return nil, fmt.Errorf("%w: address from pubkey: %w", ErrScriptBuild, err)
	}
	lockScript, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock script: %w", ErrScriptBuild, err)
	}
	return []byte(*lockScript), nil
}

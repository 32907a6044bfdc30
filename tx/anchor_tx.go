package tx

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"
)

const (
	// DustLimit is the minimum P2PKH output value in satoshis. Change
	// below this threshold is folded into the fee instead.
	DustLimit = uint64(546)

	// TxIDLen is the length of a transaction ID.
	TxIDLen = 32
)

// AnchorTxParams holds the parameters for building an anchoring transaction.
type AnchorTxParams struct {
	Payload   []byte     // root hash or canonical event JSON
	Selection *Selection // pre-selected funding inputs
	ChangePKH []byte     // 20-byte P2PKH hash for the change output
}

// AnchorTx wraps a built anchoring transaction.
//
// The only chain-visible effect the pipeline cares about is the
// OP_RETURN-carried payload at output 0; the optional change output
// returns the funding excess to the wallet.
type AnchorTx struct {
	RawTx      []byte // serialized transaction bytes (unsigned until signed)
	TxID       []byte // transaction hash, set after signing
	ChangeUTXO *UTXO  // change output (nil if below dust)
}

// BuildAnchorTx constructs the unsigned anchoring transaction:
//
//	inputs:  the selected funding UTXOs, in selection order
//	output 0: OP_RETURN <payload>, 0 satoshis
//	output 1: P2PKH change (omitted when change <= dust)
func BuildAnchorTx(params *AnchorTxParams) (*AnchorTx, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params", ErrNilParam)
	}
	if params.Selection == nil || len(params.Selection.Inputs) == 0 {
		return nil, fmt.Errorf("%w: selection", ErrNilParam)
	}

	opReturnScript, err := EncodeOPReturn(params.Payload)
	if err != nil {
		return nil, err
	}

	sdkTx := transaction.NewTransaction()

	for i, u := range params.Selection.Inputs {
		if u == nil {
			return nil, fmt.Errorf("%w: input[%d]", ErrNilParam, i)
		}
		sourceHash, err := chainhash.NewHash(u.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: input[%d] txid: %w", ErrScriptBuild, i, err)
		}
		sdkTx.AddInput(&transaction.TransactionInput{
			SourceTXID:       sourceHash,
			SourceTxOutIndex: u.Vout,
			SequenceNumber:   transaction.DefaultSequenceNumber,
		})
	}

	sdkTx.Outputs = append(sdkTx.Outputs, &transaction.TransactionOutput{
		Satoshis:      0,
		LockingScript: script.NewFromBytes(opReturnScript),
	})

	var changeUTXO *UTXO
	if params.Selection.Change > DustLimit {
		if len(params.ChangePKH) != 20 {
			return nil, fmt.Errorf("%w: change PKH must be 20 bytes, got %d", ErrScriptBuild, len(params.ChangePKH))
		}
		addr, err := script.NewAddressFromPublicKeyHash(params.ChangePKH, true)
		if err != nil {
			return nil, fmt.Errorf("%w: change address: %w", ErrScriptBuild, err)
		}
		changeLock, err := p2pkh.Lock(addr)
		if err != nil {
			return nil, fmt.Errorf("%w: change lock script: %w", ErrScriptBuild, err)
		}
		sdkTx.Outputs = append(sdkTx.Outputs, &transaction.TransactionOutput{
			Satoshis:      params.Selection.Change,
			LockingScript: changeLock,
		})
		changeUTXO = &UTXO{
			Vout:         1,
			Amount:       params.Selection.Change,
			ScriptPubKey: []byte(*changeLock),
		}
	}

	return &AnchorTx{
		RawTx:      sdkTx.Bytes(),
		ChangeUTXO: changeUTXO,
	}, nil
}

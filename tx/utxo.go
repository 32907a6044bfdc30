package tx

import (
	"bytes"
	"fmt"
	"sort"
)

// UTXO is a spendable output of the funding wallet.
type UTXO struct {
	TxID         []byte `json:"txid"` // 32 bytes
	Vout         uint32 `json:"vout"`
	Amount       uint64 `json:"amount"`        // satoshis
	ScriptPubKey []byte `json:"script_pubkey"` // locking script bytes
}

// Selection is the result of coin selection: the inputs to spend and the
// change returned to the funding address.
type Selection struct {
	Inputs []*UTXO
	Total  uint64 // sum of input amounts
	Change uint64 // Total - target - fee
}

// SelectUTXOs chooses inputs covering target + fee from the available set.
//
// Candidates are considered in ascending amount order (ties broken by
// txid, then vout), so selection is deterministic within one run and
// small outputs are consumed before the wallet fragments further.
// Accumulation stops as soon as the running sum covers target + fee; the
// excess becomes change. If the full set cannot cover the threshold,
// ErrInsufficientFunds is returned, distinct from any connectivity
// failure upstream.
func SelectUTXOs(utxos []*UTXO, target, fee uint64) (*Selection, error) {
	if len(utxos) == 0 {
		return nil, fmt.Errorf("%w: no spendable outputs, need %d sat", ErrInsufficientFunds, target+fee)
	}

	sorted := make([]*UTXO, len(utxos))
	copy(sorted, utxos)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Amount != sorted[j].Amount {
			return sorted[i].Amount < sorted[j].Amount
		}
		if c := bytes.Compare(sorted[i].TxID, sorted[j].TxID); c != 0 {
			return c < 0
		}
		return sorted[i].Vout < sorted[j].Vout
	})

	needed := target + fee
	var total uint64
	var inputs []*UTXO
	for _, u := range sorted {
		inputs = append(inputs, u)
		total += u.Amount
		if total >= needed {
			return &Selection{
				Inputs: inputs,
				Total:  total,
				Change: total - needed,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: need %d sat, have %d sat", ErrInsufficientFunds, needed, total)
}

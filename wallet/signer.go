// Package wallet is the single wallet/key collaborator of the anchoring
// pipeline: one audited implementation of seed handling, BIP32 key
// derivation, and address encoding, exposed to the rest of the system as
// a Signer with an Address and a signing key.
//
// Key hierarchy: m/44'/236'/{company}'/0/0 -- one funding key per
// company, account 0 reserved for the master wallet.
package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
)

const (
	// BIP44 path constants.
	PurposeBIP44   = 44
	CoinTypeAnchor = 236

	// MasterAccount is the account index of the master funding wallet.
	MasterAccount = 0

	// Hardened is the BIP32 hardened derivation offset.
	Hardened = 0x80000000
)

// Signer holds one funding key and exposes the two capabilities the
// pipeline needs: the funding address and transaction signing (the key
// itself, handed to tx.SignAnchorTx).
type Signer struct {
	key     *ec.PrivateKey
	address *script.Address
	path    string
}

// NewSigner wraps an existing private key, e.g. one supplied directly by
// an operator for a single-wallet deployment.
func NewSigner(key *ec.PrivateKey, mainnet bool) (*Signer, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: private key", ErrInvalidSeed)
	}
	addr, err := script.NewAddressFromPublicKey(key.PubKey(), mainnet)
	if err != nil {
		return nil, fmt.Errorf("%w: address encoding: %w", ErrDerivationFailed, err)
	}
	return &Signer{key: key, address: addr}, nil
}

// NewSignerFromSeed derives the funding key for a company from the
// master seed: m/44'/236'/{company}'/0/0. Company 0 is the master wallet.
func NewSignerFromSeed(seed []byte, company uint32, mainnet bool) (*Signer, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	if company >= Hardened {
		return nil, fmt.Errorf("%w: %d", ErrCompanyOutOfRange, company)
	}

	params := &chaincfg.TestNet
	if mainnet {
		params = &chaincfg.MainNet
	}

	masterKey, err := bip32.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}

	// m/44'/236'/{company}'/0/0
	steps := []uint32{
		PurposeBIP44 + Hardened,
		CoinTypeAnchor + Hardened,
		company + Hardened,
		0,
		0,
	}
	current := masterKey
	for _, step := range steps {
		current, err = current.Child(step)
		if err != nil {
			return nil, fmt.Errorf("%w: child %d: %w", ErrDerivationFailed, step, err)
		}
	}

	key, err := current.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to extract EC private key: %w", ErrDerivationFailed, err)
	}

	signer, err := NewSigner(key, mainnet)
	if err != nil {
		return nil, err
	}
	signer.path = fmt.Sprintf("m/44'/%d'/%d'/0/0", CoinTypeAnchor, company)
	return signer, nil
}

// Address returns the funding address string.
func (s *Signer) Address() string {
	return s.address.AddressString
}

// PublicKeyHash returns the 20-byte P2PKH hash of the funding address,
// used as the change destination.
func (s *Signer) PublicKeyHash() []byte {
	return []byte(s.address.PublicKeyHash)
}

// PrivateKey returns the signing key for tx.SignAnchorTx.
func (s *Signer) PrivateKey() *ec.PrivateKey {
	return s.key
}

// Path returns the human-readable derivation path, empty for directly
// supplied keys.
func (s *Signer) Path() string {
	return s.path
}

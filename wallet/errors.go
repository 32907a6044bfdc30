package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is empty or invalid.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDecryptionFailed indicates wrong password or corrupted wallet data.
	ErrDecryptionFailed = errors.New("wallet: seed decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates seed checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("wallet: seed checksum mismatch")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrCompanyOutOfRange indicates a company index exceeds the BIP32
	// hardened boundary.
	ErrCompanyOutOfRange = errors.New("wallet: company index exceeds BIP32 hardened boundary")

	// ErrSeedFileNotFound indicates no seed file exists in the data directory.
	ErrSeedFileNotFound = errors.New("wallet: seed file not found")

	// ErrSeedFileExists indicates the data directory already holds a seed
	// file; it is never overwritten.
	ErrSeedFileExists = errors.New("wallet: seed file already exists")
)

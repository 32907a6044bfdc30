package wallet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SeedFileName is the wallet file holding the encrypted master seed
// inside the service's data directory.
const SeedFileName = "seed.enc"

// SaveSeed encrypts the master seed with password and writes it to the
// wallet file under dataDir, creating the directory if needed. The file
// is owner-only; an existing seed file is never overwritten
// (ErrSeedFileExists).
func SaveSeed(dataDir string, seed []byte, password string) error {
	encrypted, err := EncryptSeed(seed, password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("wallet: create data directory: %w", err)
	}

	path := filepath.Join(dataDir, SeedFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrSeedFileExists, path)
	}
	if err := os.WriteFile(path, encrypted, 0600); err != nil {
		return fmt.Errorf("wallet: write seed file: %w", err)
	}
	return nil
}

// LoadSeed reads and decrypts the master seed from the wallet file under
// dataDir.
func LoadSeed(dataDir, password string) ([]byte, error) {
	path := filepath.Join(dataDir, SeedFileName)
	encrypted, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSeedFileNotFound, path)
		}
		return nil, fmt.Errorf("wallet: read seed file: %w", err)
	}
	return DecryptSeed(encrypted, password)
}

// LoadSignerFromFile loads the encrypted master seed and derives the
// funding signer for a company in one step, the startup path of a
// deployment keeping its wallet in the data directory.
func LoadSignerFromFile(dataDir, password string, company uint32, mainnet bool) (*Signer, error) {
	seed, err := LoadSeed(dataDir, password)
	if err != nil {
		return nil, err
	}
	return NewSignerFromSeed(seed, company, mainnet)
}

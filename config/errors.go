package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", or \"regtest\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidInterval indicates the anchor interval is zero or negative.
	ErrInvalidInterval = errors.New("config: anchor interval must be positive")

	// ErrZeroFee indicates the priority fee is zero.
	ErrZeroFee = errors.New("config: priority fee must be positive")
)

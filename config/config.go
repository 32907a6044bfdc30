// Package config holds the runtime configuration of the anchoring service.
package config

import "time"

// Config collects the settings the anchoring pipeline needs at startup.
type Config struct {
	// DataDir is the directory holding the queue database and wallet files.
	DataDir string `json:"data_dir"`

	// Network selects the chain: "mainnet", "testnet", or "regtest".
	Network string `json:"network"`

	// RPCURL, RPCUser, RPCPassword configure the node's JSON-RPC endpoint.
	// Resolved against presets and environment by network.ResolveConfig.
	RPCURL      string `json:"rpc_url"`
	RPCUser     string `json:"rpc_user"`
	RPCPassword string `json:"rpc_password"`

	// ExplorerURL is the base URL of the public explorer API, used for
	// the verifier's fallback read path and the AnchoredTransaction
	// explorer links. Optional.
	ExplorerURL string `json:"explorer_url"`

	// AnchorInterval is the scheduler tick interval.
	AnchorInterval time.Duration `json:"anchor_interval"`

	// PriorityFee is the flat fee in satoshis attached to each anchoring
	// transaction.
	PriorityFee uint64 `json:"priority_fee"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns a testnet configuration with one-minute anchoring
// cycles. The RPC endpoint still has to be resolved before use.
func DefaultConfig() Config {
	return Config{
		DataDir:        "anchor-data",
		Network:        "testnet",
		AnchorInterval: time.Minute,
		PriorityFee:    500,
		LogLevel:       "info",
	}
}

package network

import "fmt"

// RPCConfig holds the connection parameters for the node's JSON-RPC interface.
type RPCConfig struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Password string `json:"password"`
	Network  string `json:"network"`
}

// NetworkPresets contains default RPC configurations for known networks.
// Mainnet is intentionally omitted to require explicit configuration.
var NetworkPresets = map[string]RPCConfig{
	"regtest": {URL: "http://localhost:18332", User: "anchor", Password: "anchor"},
	"testnet": {URL: "http://localhost:18332", User: "anchor", Password: "anchor"},
}

// ResolveConfig merges RPC configuration from three sources with decreasing priority:
//  1. Explicit values (highest priority)
//  2. Environment variables (ANCHOR_RPC_URL, ANCHOR_RPC_USER, ANCHOR_RPC_PASS)
//  3. Network presets (lowest priority, regtest/testnet only)
//
// For mainnet, explicit configuration is required -- there is no preset.
func ResolveConfig(explicit *RPCConfig, env map[string]string, network string) (*RPCConfig, error) {
	result := RPCConfig{Network: network}

	// Layer 1: start with preset defaults if available.
	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}

	// Layer 2: environment variables override preset defaults.
	if env != nil {
		if v, ok := env["ANCHOR_RPC_URL"]; ok && v != "" {
			result.URL = v
		}
		if v, ok := env["ANCHOR_RPC_USER"]; ok && v != "" {
			result.User = v
		}
		if v, ok := env["ANCHOR_RPC_PASS"]; ok && v != "" {
			result.Password = v
		}
	}

	// Layer 3: explicit values have highest priority.
	if explicit != nil {
		if explicit.URL != "" {
			result.URL = explicit.URL
		}
		if explicit.User != "" {
			result.User = explicit.User
		}
		if explicit.Password != "" {
			result.Password = explicit.Password
		}
	}

	if result.URL == "" {
		return nil, fmt.Errorf("network: %s requires explicit RPC configuration (set ANCHOR_RPC_URL or config file)", network)
	}

	return &result, nil
}

package network

import (
	"fmt"
	"time"
)

// Backend kinds.
const (
	BackendRPC     = "rpc"
	BackendIndexer = "indexer"
)

// Config selects and parameterizes a BlockchainService backend.
type Config struct {
	Backend  string        `json:"backend" yaml:"backend" mapstructure:"backend"` // "rpc" or "indexer"
	URL      string        `json:"url" yaml:"url" mapstructure:"url"`
	User     string        `json:"user" yaml:"user" mapstructure:"user"`
	Password string        `json:"password" yaml:"password" mapstructure:"password"`
	Network  string        `json:"network" yaml:"network" mapstructure:"network"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// NetworkPresets contains default node configurations for local networks.
// Mainnet and chipnet are intentionally omitted to require explicit configuration.
var NetworkPresets = map[string]Config{
	"regtest": {Backend: BackendRPC, URL: "http://localhost:18443", User: "cashbench", Password: "cashbench"},
	"testnet": {Backend: BackendRPC, URL: "http://localhost:18332", User: "cashbench", Password: "cashbench"},
}

// ResolveConfig merges backend configuration from three sources with decreasing priority:
//  1. CLI flags (highest priority)
//  2. Environment variables (CASHBENCH_BACKEND, CASHBENCH_RPC_URL, CASHBENCH_RPC_USER, CASHBENCH_RPC_PASS)
//  3. Network presets (lowest priority, regtest/testnet only)
func ResolveConfig(flags *Config, env map[string]string, network string) (*Config, error) {
	result := Config{Network: network}

	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}

	if env != nil {
		if v, ok := env["CASHBENCH_BACKEND"]; ok && v != "" {
			result.Backend = v
		}
		if v, ok := env["CASHBENCH_RPC_URL"]; ok && v != "" {
			result.URL = v
		}
		if v, ok := env["CASHBENCH_RPC_USER"]; ok && v != "" {
			result.User = v
		}
		if v, ok := env["CASHBENCH_RPC_PASS"]; ok && v != "" {
			result.Password = v
		}
	}

	if flags != nil {
		if flags.Backend != "" {
			result.Backend = flags.Backend
		}
		if flags.URL != "" {
			result.URL = flags.URL
		}
		if flags.User != "" {
			result.User = flags.User
		}
		if flags.Password != "" {
			result.Password = flags.Password
		}
		if flags.Timeout > 0 {
			result.Timeout = flags.Timeout
		}
	}

	if result.Backend == "" {
		result.Backend = BackendRPC
	}
	if result.Backend != BackendRPC && result.Backend != BackendIndexer {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, result.Backend)
	}
	if result.URL == "" {
		return nil, fmt.Errorf("network: %s requires an explicit backend URL (set --rpc-url, CASHBENCH_RPC_URL, or config file)", network)
	}

	return &result, nil
}

// NewService constructs the backend cfg names.
func NewService(cfg *Config) (BlockchainService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrUnknownBackend)
	}
	switch cfg.Backend {
	case BackendRPC, "":
		return NewRPCClient(*cfg), nil
	case BackendIndexer:
		return NewIndexerClient(*cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

package network

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkPresets(t *testing.T) {
	tests := []struct {
		name    string
		network string
		url     string
		user    string
	}{
		{"regtest defaults", "regtest", "http://localhost:18443", "cashbench"},
		{"testnet defaults", "testnet", "http://localhost:18332", "cashbench"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preset, ok := NetworkPresets[tt.network]
			require.True(t, ok, "preset should exist for %s", tt.network)
			assert.Equal(t, tt.url, preset.URL)
			assert.Equal(t, tt.user, preset.User)
			assert.Equal(t, BackendRPC, preset.Backend)
		})
	}
}

func TestMainnetHasNoPreset(t *testing.T) {
	_, ok := NetworkPresets["mainnet"]
	assert.False(t, ok, "mainnet should not have a default preset")
}

func TestResolveConfigFlagsOverrideAll(t *testing.T) {
	flags := &Config{URL: "http://custom:9999", User: "me", Password: "secret", Timeout: 5 * time.Second}
	cfg, err := ResolveConfig(flags, nil, "regtest")
	require.NoError(t, err)
	assert.Equal(t, "http://custom:9999", cfg.URL)
	assert.Equal(t, "me", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestResolveConfigEnvOverridesPreset(t *testing.T) {
	env := map[string]string{
		"CASHBENCH_RPC_URL":  "http://env-node:18443",
		"CASHBENCH_RPC_USER": "envuser",
	}
	cfg, err := ResolveConfig(nil, env, "regtest")
	require.NoError(t, err)
	assert.Equal(t, "http://env-node:18443", cfg.URL)
	assert.Equal(t, "envuser", cfg.User)
	assert.Equal(t, "cashbench", cfg.Password) // falls through to preset
}

func TestResolveConfigPresetFallback(t *testing.T) {
	cfg, err := ResolveConfig(nil, nil, "regtest")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:18443", cfg.URL)
	assert.Equal(t, "regtest", cfg.Network)
}

func TestResolveConfigMainnetRequiresExplicit(t *testing.T) {
	_, err := ResolveConfig(nil, nil, "mainnet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mainnet")
}

func TestResolveConfigIndexerBackend(t *testing.T) {
	env := map[string]string{"CASHBENCH_BACKEND": "indexer"}
	flags := &Config{URL: "https://indexer.example/bch"}
	cfg, err := ResolveConfig(flags, env, "mainnet")
	require.NoError(t, err)
	assert.Equal(t, BackendIndexer, cfg.Backend)

	svc, err := NewService(cfg)
	require.NoError(t, err)
	assert.IsType(t, &IndexerClient{}, svc)
}

func TestResolveConfigUnknownBackend(t *testing.T) {
	_, err := ResolveConfig(&Config{Backend: "carrier-pigeon", URL: "x"}, nil, "regtest")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNewService(t *testing.T) {
	svc, err := NewService(&Config{Backend: BackendRPC, URL: "http://localhost:18443"})
	require.NoError(t, err)
	assert.IsType(t, &RPCClient{}, svc)

	_, err = NewService(nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = NewService(&Config{Backend: "nope"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/cashbench/network"
	"github.com/bitfsorg/cashbench/wallet"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if _, err := wallet.GetNetwork(cfg.Network); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidNetwork, cfg.Network)
	}

	switch cfg.Backend {
	case "", network.BackendRPC, network.BackendIndexer:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, cfg.Backend)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	seen := make(map[string]bool, len(cfg.Wallets))
	for _, label := range cfg.Wallets {
		if label == "" || seen[label] {
			return fmt.Errorf("%w: %q", ErrInvalidWallets, label)
		}
		seen[label] = true
	}

	return nil
}

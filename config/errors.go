// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", \"chipnet\", or \"regtest\")")

	// ErrInvalidBackend indicates the backend kind is not recognized.
	ErrInvalidBackend = errors.New("config: invalid backend (must be \"rpc\" or \"indexer\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidWallets indicates an empty or repeated wallet label.
	ErrInvalidWallets = errors.New("config: wallet labels must be non-empty and unique")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrUnsupportedFormat indicates a config file extension other than yaml, yml or json.
	ErrUnsupportedFormat = errors.New("config: unsupported config file extension")
)

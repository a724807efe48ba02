package workbench

import "errors"

var (
	// ErrNilParam indicates a required dependency was nil.
	ErrNilParam = errors.New("workbench: required parameter is nil")

	// ErrNetworkMismatch indicates a binding made on another network.
	ErrNetworkMismatch = errors.New("workbench: binding belongs to another network")

	// ErrUnknownWallet indicates a wallet label not in the configured list.
	ErrUnknownWallet = errors.New("workbench: unknown wallet")

	// ErrUnusableArgument indicates a constructor argument that is unset or malformed.
	ErrUnusableArgument = errors.New("workbench: unusable constructor argument")
)

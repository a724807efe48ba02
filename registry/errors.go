package registry

import "errors"

var (
	// ErrUnknownName indicates no entry carries the requested label.
	ErrUnknownName = errors.New("registry: unknown utxo name")

	// ErrDuplicateSelection indicates the same outpoint was selected twice.
	ErrDuplicateSelection = errors.New("registry: utxo selected twice")

	// ErrNilService indicates a Refresher was built without a blockchain service.
	ErrNilService = errors.New("registry: blockchain service is nil")
)

package network

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the backend.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrAuthFailed indicates the backend rejected the RPC credentials.
	ErrAuthFailed = errors.New("network: authentication failed")

	// ErrTxNotFound indicates the requested transaction does not exist.
	ErrTxNotFound = errors.New("network: transaction not found")

	// ErrBroadcastRejected indicates the backend rejected the broadcast transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrInvalidResponse indicates the backend returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrUnknownBackend indicates a backend kind other than rpc or indexer.
	ErrUnknownBackend = errors.New("network: unknown backend")
)

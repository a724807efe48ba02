package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrInsufficientFunds indicates the inputs cannot cover outputs and fee.
	ErrInsufficientFunds = errors.New("tx: insufficient funds")

	// ErrNoInputs indicates a build was attempted without inputs.
	ErrNoInputs = errors.New("tx: no inputs")

	// ErrDustOutput indicates an output below the dust limit.
	ErrDustOutput = errors.New("tx: output below dust limit")

	// ErrInvalidTxID indicates a TxID is not 32 bytes of hex.
	ErrInvalidTxID = errors.New("tx: invalid txid")

	// ErrSigningFailed indicates transaction signing failed.
	ErrSigningFailed = errors.New("tx: signing failed")

	// ErrScriptBuild indicates script construction failed.
	ErrScriptBuild = errors.New("tx: script build failed")

	// ErrInvalidKey indicates a private key could not be parsed.
	ErrInvalidKey = errors.New("tx: invalid private key")

	// ErrInvalidAddress indicates a recipient address could not be decoded.
	ErrInvalidAddress = errors.New("tx: invalid address")
)

package contract

import "errors"

var (
	// ErrInvalidArtifact indicates the artifact JSON is malformed or incomplete.
	ErrInvalidArtifact = errors.New("contract: invalid artifact")

	// ErrInvalidBytecode indicates the artifact's bytecode ASM cannot be assembled.
	ErrInvalidBytecode = errors.New("contract: invalid bytecode")

	// ErrUnknownFunction indicates the ABI has no function by that name.
	ErrUnknownFunction = errors.New("contract: unknown function")

	// ErrArgumentCount indicates the wrong number of arguments for a constructor or function.
	ErrArgumentCount = errors.New("contract: wrong number of arguments")

	// ErrArgumentType indicates an argument value does not fit its declared type.
	ErrArgumentType = errors.New("contract: argument does not match type")

	// ErrNoUTXOs indicates automatic selection found nothing to spend.
	ErrNoUTXOs = errors.New("contract: no spendable contract UTXOs")

	// ErrNoContractInput indicates a manual input list without any contract UTXO.
	ErrNoContractInput = errors.New("contract: no contract input selected")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("contract: required parameter is nil")
)

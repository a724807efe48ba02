package compose

import "errors"

var (
	// ErrMissingContractOrFunction indicates no bound contract or an
	// unresolved function name.
	ErrMissingContractOrFunction = errors.New("compose: missing contract or function")

	// ErrUnderfundedInputs indicates the inputs cannot cover the outputs plus fee.
	ErrUnderfundedInputs = errors.New("compose: inputs do not cover outputs and fee")

	// ErrSubmissionRejected indicates the network refused the finished
	// transaction. The boundary's message follows in the error text.
	ErrSubmissionRejected = errors.New("compose: submission rejected")

	// ErrMalformedArgument indicates an argument that is unset or failed to decode.
	ErrMalformedArgument = errors.New("compose: malformed argument")

	// ErrDuplicateInput indicates the same outpoint was selected twice.
	ErrDuplicateInput = errors.New("compose: duplicate input")

	// ErrUnknownWallet indicates a keyed input whose wallet index has no identity.
	ErrUnknownWallet = errors.New("compose: unknown wallet for keyed input")

	// ErrForfeitExceeded indicates suppressed change would hand the miner more
	// than the configured cap.
	ErrForfeitExceeded = errors.New("compose: forfeited value exceeds cap")

	// ErrEmptyDraft indicates Submit was given a draft without a transaction.
	ErrEmptyDraft = errors.New("compose: draft has no transaction")

	// ErrNilService indicates a Composer was built without a blockchain service
	// or refresher.
	ErrNilService = errors.New("compose: nil dependency")
)

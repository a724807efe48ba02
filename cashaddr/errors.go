package cashaddr

import "errors"

var (
	// ErrInvalidFormat indicates the string is not a well-formed CashAddr.
	ErrInvalidFormat = errors.New("cashaddr: invalid format")

	// ErrInvalidChecksum indicates the checksum does not verify.
	ErrInvalidChecksum = errors.New("cashaddr: invalid checksum")

	// ErrInvalidCharacter indicates a character outside the CashAddr charset.
	ErrInvalidCharacter = errors.New("cashaddr: invalid character")

	// ErrUnknownPrefix indicates none of the candidate prefixes produced a valid address.
	ErrUnknownPrefix = errors.New("cashaddr: no matching prefix")

	// ErrUnsupportedType indicates the version byte names an address type this package does not handle.
	ErrUnsupportedType = errors.New("cashaddr: unsupported address type")

	// ErrInvalidHashLength indicates the payload hash is not 20 bytes.
	ErrInvalidHashLength = errors.New("cashaddr: hash must be 20 bytes")
)

package tx

const (
	// DustLimit is the minimum output value in satoshis.
	DustLimit = uint64(546)

	// DefaultFeeRate is the default fee rate in sat/KB (1 sat/byte).
	DefaultFeeRate = uint64(1000)

	// P2PKHUnlockLen is the expected P2PKH unlocking script size:
	// push(sig 72 + flag 1) + push(compressed pubkey 33).
	P2PKHUnlockLen = 1 + 73 + 1 + 33

	// SignatureLen is the pessimistic length of a DER signature plus sighash flag.
	SignatureLen = 73
)

// EstimateFee estimates the transaction fee for a given size and fee rate.
// Returns ceil(txSizeBytes * feeRate / 1000).
func EstimateFee(txSizeBytes int, feeRate uint64) uint64 {
	if feeRate == 0 {
		feeRate = DefaultFeeRate
	}
	fee := uint64(txSizeBytes) * feeRate
	// Ceiling division by 1000
	return (fee + 999) / 1000
}

// VarIntSize returns the encoded length of a Bitcoin variable-length integer.
func VarIntSize(n int) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// InputSize returns the serialized size of an input with the given unlocking script length.
//
//	prevhash(32) + previndex(4) + scriptlen varint + script + sequence(4)
func InputSize(unlockLen int) int {
	return 32 + 4 + VarIntSize(unlockLen) + unlockLen + 4
}

// OutputSize returns the serialized size of an output with the given locking script length.
//
//	value(8) + scriptlen varint + script
func OutputSize(lockLen int) int {
	return 8 + VarIntSize(lockLen) + lockLen
}

// EstimateTxSize estimates the size of a transaction from its unlocking and
// locking script lengths.
func EstimateTxSize(unlockLens, lockLens []int) int {
	// version(4) + input count + output count + locktime(4)
	size := 4 + VarIntSize(len(unlockLens)) + VarIntSize(len(lockLens)) + 4
	for _, l := range unlockLens {
		size += InputSize(l)
	}
	for _, l := range lockLens {
		size += OutputSize(l)
	}
	return size
}

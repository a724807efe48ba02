package tx

import (
	"encoding/hex"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

// TxIDLen is the length of a transaction hash in bytes.
const TxIDLen = 32

// UTXO represents an unspent transaction output.
type UTXO struct {
	TxID          string `json:"txid"` // display (big-endian) hex
	Vout          uint32 `json:"vout"`
	Amount        uint64 `json:"amount"`                   // satoshis
	LockingScript []byte `json:"locking_script,omitempty"` // may be empty when unknown
}

// Outpoint returns the "txid:vout" key identifying the output.
func (u UTXO) Outpoint() string {
	return fmt.Sprintf("%s:%d", u.TxID, u.Vout)
}

// Hash parses the TxID into a chainhash.
func (u UTXO) Hash() (*chainhash.Hash, error) {
	if len(u.TxID) != hex.EncodedLen(TxIDLen) {
		return nil, fmt.Errorf("%w: txid %q", ErrInvalidTxID, u.TxID)
	}
	h, err := chainhash.NewHashFromHex(u.TxID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTxID, err)
	}
	return h, nil
}

// Recipient is one requested payment.
type Recipient struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"` // satoshis
}

// SumUTXOs returns the total value of utxos.
func SumUTXOs(utxos []UTXO) uint64 {
	var total uint64
	for _, u := range utxos {
		total += u.Amount
	}
	return total
}

// SumRecipients returns the total value paid to recipients.
func SumRecipients(recipients []Recipient) uint64 {
	var total uint64
	for _, r := range recipients {
		total += r.Amount
	}
	return total
}

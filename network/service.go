package network

import (
	"context"
	"encoding/hex"
	"fmt"
)

// BlockchainService is the network boundary the workbench talks to. A node
// RPC endpoint, a REST indexer or a test double can stand behind it.
type BlockchainService interface {
	// ListUnspent returns the spendable outputs of address. Order is not
	// guaranteed to be stable between calls.
	ListUnspent(ctx context.Context, address string) ([]*UTXO, error)

	// GetBestBlockHeight returns the height of the current chain tip.
	GetBestBlockHeight(ctx context.Context) (uint64, error)

	// GetRawTx returns the raw transaction bytes for the given txid.
	GetRawTx(ctx context.Context, txid string) ([]byte, error)

	// BroadcastTx submits a raw transaction hex to the network and returns the
	// txid. A rejection is returned as an error wrapping ErrBroadcastRejected
	// with the boundary's message intact.
	BroadcastTx(ctx context.Context, rawTxHex string) (string, error)
}

// UTXO represents an unspent transaction output.
type UTXO struct {
	TxID          string `json:"txid"`
	Vout          uint32 `json:"vout"`
	Amount        uint64 `json:"amount"` // satoshis
	ScriptPubKey  string `json:"script_pubkey"`
	Address       string `json:"address"`
	Confirmations int64  `json:"confirmations"`
}

// LockingScript decodes ScriptPubKey. An empty ScriptPubKey yields nil.
func (u *UTXO) LockingScript() ([]byte, error) {
	if u.ScriptPubKey == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(u.ScriptPubKey)
	if err != nil {
		return nil, fmt.Errorf("%w: script_pubkey of %s:%d: %v", ErrInvalidResponse, u.TxID, u.Vout, err)
	}
	return b, nil
}

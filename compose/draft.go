package compose

import (
	"github.com/bsv-blockchain/go-sdk/transaction"

	"github.com/bitfsorg/cashbench/coerce"
	"github.com/bitfsorg/cashbench/contract"
	"github.com/bitfsorg/cashbench/registry"
	"github.com/bitfsorg/cashbench/tx"
	"github.com/bitfsorg/cashbench/wallet"
)

// ChangePolicy decides whether leftover input value returns as change.
type ChangePolicy int

const (
	// Auto appends a change output to the contract address when it clears dust.
	Auto ChangePolicy = iota
	// Suppressed adds no change; leftover value goes to the miner.
	Suppressed
)

func (p ChangePolicy) String() string {
	if p == Suppressed {
		return "suppressed"
	}
	return "auto"
}

// FunctionCall names a contract function and its coerced arguments in ABI order.
type FunctionCall struct {
	Name string
	Args []coerce.Argument
}

// Selection is either automatic (no inputs constrained) or a manual,
// ordered list of registry entries.
type Selection struct {
	Manual bool
	Inputs []registry.NamedUTXO
}

// Automatic leaves input selection to the contract call builder.
func Automatic() Selection { return Selection{} }

// Manual spends exactly the given entries.
func Manual(inputs ...registry.NamedUTXO) Selection {
	return Selection{Manual: true, Inputs: append([]registry.NamedUTXO(nil), inputs...)}
}

// Request is one send action.
type Request struct {
	Contract  *contract.Contract
	Call      FunctionCall
	Selection Selection
	Outputs   []tx.Recipient
	Change    ChangePolicy
	// Wallets is indexed by NamedUTXO.WalletIndex for keyed inputs.
	Wallets []*wallet.KeyIdentity
}

// DraftInput is one input of a composed transaction. Signer is the label of
// the wallet that signs a keyed input and empty for contract inputs.
type DraftInput struct {
	registry.NamedUTXO
	Signer string
}

// Draft is a composed, signed transaction not yet submitted. It lives for a
// single send action.
type Draft struct {
	Contract     string
	Function     string
	Inputs       []DraftInput
	Outputs      []tx.Recipient
	Change       ChangePolicy
	ChangeOutput *tx.Recipient // nil when no change output was added
	Fee          uint64
	Tx           *transaction.Transaction

	net       *wallet.NetworkConfig
	refreshes []string
}

// InputTotal sums the input values.
func (d *Draft) InputTotal() uint64 {
	var total uint64
	for _, in := range d.Inputs {
		total += in.Amount
	}
	return total
}

// Result reports a submitted transaction.
type Result struct {
	TxID        string
	ExplorerURL string // empty when the network has no explorer
	Draft       *Draft
}

package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/bsv-blockchain/go-sdk/transaction"

	"github.com/bitfsorg/cashbench/tx"
)

// Call is a pending invocation of one contract function. Configure it with
// From, FromP2PKH, To and the With* options, then Build it.
type Call struct {
	contract *Contract
	fn       *Function
	selector int // -1 when the contract has a single function

	args []any

	inputs     []tx.Input
	contractIn int
	manual     bool
	outputs    []tx.Recipient
	noChange   bool
	feeRate    uint64
	lockTime   *uint32
}

// Built is a finished, signed call.
type Built struct {
	Tx         *transaction.Transaction
	Fee        uint64
	ChangeVout int // -1 when no change output was added
	Change     uint64
	Inputs     []tx.UTXO
}

// TxID returns the display hex id of the built transaction.
func (b *Built) TxID() string { return b.Tx.TxID().String() }

// Hex returns the serialized transaction as hex.
func (b *Built) Hex() string { return b.Tx.Hex() }

// Function starts a call of the named ABI function. Arguments are encoded
// now except for sig arguments given as *tx.SignatureTemplate, which are
// signed when the transaction is built.
func (c *Contract) Function(name string, args ...any) (*Call, error) {
	fn, idx, ok := c.artifact.Function(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownFunction, c.Name(), name)
	}
	if len(args) != len(fn.Inputs) {
		return nil, fmt.Errorf("%w: %s.%s takes %d, got %d",
			ErrArgumentCount, c.Name(), name, len(fn.Inputs), len(args))
	}
	for i, p := range fn.Inputs {
		if _, ok := args[i].(*tx.SignatureTemplate); ok && p.Type == "sig" {
			continue
		}
		if _, err := EncodeArgument(p.Type, args[i]); err != nil {
			return nil, fmt.Errorf("%s.%s arg %s: %w", c.Name(), name, p.Name, err)
		}
	}
	selector := -1
	if len(c.artifact.ABI) > 1 {
		selector = idx
	}
	return &Call{
		contract: c,
		fn:       fn,
		selector: selector,
		args:     args,
		feeRate:  tx.DefaultFeeRate,
	}, nil
}

// From adds contract UTXOs to spend. Without any From call, and unless
// Manual was called, the contract's own UTXOs are selected automatically,
// largest first, and placed ahead of any P2PKH inputs.
func (k *Call) From(utxos ...tx.UTXO) *Call {
	for _, u := range utxos {
		if len(u.LockingScript) == 0 {
			u.LockingScript = k.contract.LockingScript()
		}
		k.inputs = append(k.inputs, tx.Input{
			UTXO:       u,
			Unlocker:   &unlocker{call: k},
			ScriptCode: k.contract.redeem,
		})
		k.contractIn++
	}
	return k
}

// FromP2PKH adds a UTXO owned by tmpl's key, unlocked with a P2PKH signature.
func (k *Call) FromP2PKH(utxo tx.UTXO, tmpl *tx.SignatureTemplate) (*Call, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("%w: signature template", ErrNilParam)
	}
	if len(utxo.LockingScript) == 0 {
		lock, err := tmpl.LockingScript()
		if err != nil {
			return nil, err
		}
		utxo.LockingScript = lock
	}
	k.inputs = append(k.inputs, tx.Input{UTXO: utxo, Unlocker: tmpl.Unlocker()})
	return k, nil
}

// Manual turns automatic selection off: Build spends exactly the inputs
// added with From and FromP2PKH, and at least one of them must be From.
func (k *Call) Manual() *Call {
	k.manual = true
	return k
}

// To adds outputs. Their order is preserved in the transaction.
func (k *Call) To(recipients ...tx.Recipient) *Call {
	k.outputs = append(k.outputs, recipients...)
	return k
}

// WithoutChange drops the change output; leftover value goes to the miner.
func (k *Call) WithoutChange() *Call {
	k.noChange = true
	return k
}

// WithFeeRate sets the fee rate in sat/KB.
func (k *Call) WithFeeRate(rate uint64) *Call {
	k.feeRate = rate
	return k
}

// WithTime sets nLockTime. Without it the current block height is used.
func (k *Call) WithTime(lockTime uint32) *Call {
	k.lockTime = &lockTime
	return k
}

// Build selects inputs if needed, then assembles and signs the transaction.
// Change, when enabled, returns to the contract address.
func (k *Call) Build(ctx context.Context) (*Built, error) {
	outputs := make([]tx.Output, 0, len(k.outputs))
	for i, r := range k.outputs {
		lock, err := tx.LockingScriptForAddress(r.To)
		if err != nil {
			return nil, fmt.Errorf("output[%d]: %w", i, err)
		}
		outputs = append(outputs, tx.Output{LockingScript: lock, Amount: r.Amount})
	}

	lockTime, err := k.resolveLockTime(ctx)
	if err != nil {
		return nil, err
	}

	if k.contractIn > 0 {
		return k.build(k.inputs, outputs, lockTime)
	}
	if k.manual {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoContractInput, k.contract.Name(), k.fn.Name)
	}

	utxos, err := k.contract.GetUTXOs(ctx)
	if err != nil {
		return nil, err
	}
	if len(utxos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoUTXOs, k.contract.Address())
	}
	var selected []tx.Input
	for _, u := range utxos {
		selected = append(selected, tx.Input{
			UTXO:       u,
			Unlocker:   &unlocker{call: k},
			ScriptCode: k.contract.redeem,
		})
		all := append(append([]tx.Input(nil), selected...), k.inputs...)
		built, err := k.build(all, outputs, lockTime)
		if errors.Is(err, tx.ErrInsufficientFunds) {
			continue
		}
		return built, err
	}
	return nil, fmt.Errorf("%w: %s holds %d sat", tx.ErrInsufficientFunds,
		k.contract.Address(), tx.SumUTXOs(utxos))
}

func (k *Call) resolveLockTime(ctx context.Context) (uint32, error) {
	if k.lockTime != nil {
		return *k.lockTime, nil
	}
	if k.contract.chain == nil {
		return 0, nil
	}
	height, err := k.contract.chain.GetBestBlockHeight(ctx)
	if err != nil {
		return 0, fmt.Errorf("contract: block height for locktime: %w", err)
	}
	return uint32(height), nil
}

func (k *Call) build(inputs []tx.Input, outputs []tx.Output, lockTime uint32) (*Built, error) {
	b := tx.NewBuilder()
	b.SetFeeRate(k.feeRate)
	b.SetLockTime(lockTime)
	for _, in := range inputs {
		b.AddInput(in)
	}
	for _, out := range outputs {
		b.AddOutput(out)
	}
	if k.noChange {
		b.WithoutChange()
	} else {
		b.SetChange(k.contract.LockingScript())
	}

	built, err := b.Build()
	if err != nil {
		return nil, err
	}
	res := &Built{
		Tx:         built.Tx,
		Fee:        built.Fee,
		ChangeVout: built.ChangeVout,
		Inputs:     make([]tx.UTXO, len(inputs)),
	}
	if built.Change != nil {
		res.Change = built.Change.Amount
	}
	for i, in := range inputs {
		res.Inputs[i] = in.UTXO
	}
	return res, nil
}

// unlocker produces the P2SH unlocking script for a contract input:
// function arguments last-first, the selector, then the redeem script.
type unlocker struct {
	call *Call
}

func (u *unlocker) EstimateLength() int {
	n := 0
	for i, p := range u.call.fn.Inputs {
		if _, ok := u.call.args[i].(*tx.SignatureTemplate); ok {
			n += 1 + tx.SignatureLen
			continue
		}
		enc, _ := EncodeArgument(p.Type, u.call.args[i])
		n += len(tx.PushData(enc))
	}
	if u.call.selector >= 0 {
		n += len(tx.PushData(tx.EncodeScriptNum(big.NewInt(int64(u.call.selector)))))
	}
	return n + len(tx.PushData(u.call.contract.redeem))
}

func (u *unlocker) Unlock(t *transaction.Transaction, idx int) ([]byte, error) {
	var s []byte
	for i := len(u.call.fn.Inputs) - 1; i >= 0; i-- {
		p := u.call.fn.Inputs[i]
		var enc []byte
		if tmpl, ok := u.call.args[i].(*tx.SignatureTemplate); ok {
			sig, err := tmpl.Sign(t, idx)
			if err != nil {
				return nil, fmt.Errorf("sign %s: %w", p.Name, err)
			}
			enc = sig
		} else {
			var err error
			if enc, err = EncodeArgument(p.Type, u.call.args[i]); err != nil {
				return nil, fmt.Errorf("arg %s: %w", p.Name, err)
			}
		}
		s = append(s, tx.PushData(enc)...)
	}
	if u.call.selector >= 0 {
		s = append(s, tx.PushData(tx.EncodeScriptNum(big.NewInt(int64(u.call.selector))))...)
	}
	return append(s, tx.PushData(u.call.contract.redeem)...), nil
}

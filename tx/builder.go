package tx

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

// Unlocker produces the unlocking script for one input once every input and
// output of the transaction is fixed.
type Unlocker interface {
	// EstimateLength returns the expected unlocking script size in bytes.
	EstimateLength() int
	// Unlock returns the unlocking script for input idx of t.
	Unlock(t *transaction.Transaction, idx int) ([]byte, error)
}

// Input is one output to spend.
type Input struct {
	UTXO     UTXO
	Unlocker Unlocker
	// ScriptCode is the script signatures commit to. It defaults to
	// UTXO.LockingScript and must be the redeem script for P2SH inputs.
	ScriptCode []byte
}

// Output is one output to create, in order.
type Output struct {
	LockingScript []byte
	Amount        uint64
}

// Builder assembles a transaction from explicit inputs and outputs, adds a
// change output when asked to, then runs every input's unlocker.
type Builder struct {
	inputs   []Input
	outputs  []Output
	change   []byte
	noChange bool
	feeRate  uint64
	lockTime uint32
}

// Built is the result of Builder.Build.
type Built struct {
	Tx         *transaction.Transaction
	Fee        uint64
	Change     *Output // nil when no change output was added
	ChangeVout int     // -1 when no change output was added
}

// NewBuilder creates an empty Builder using DefaultFeeRate.
func NewBuilder() *Builder {
	return &Builder{
		feeRate: DefaultFeeRate,
	}
}

// AddInput appends an input to spend.
func (b *Builder) AddInput(in Input) {
	b.inputs = append(b.inputs, in)
}

// AddOutput appends an output. Outputs keep the order they were added in.
func (b *Builder) AddOutput(out Output) {
	b.outputs = append(b.outputs, out)
}

// SetChange sets the locking script that receives change.
func (b *Builder) SetChange(lockingScript []byte) {
	b.change = lockingScript
}

// WithoutChange disables the change output; leftover value goes to the miner.
func (b *Builder) WithoutChange() {
	b.noChange = true
}

// SetFeeRate sets the fee rate in sat/KB.
func (b *Builder) SetFeeRate(rate uint64) {
	b.feeRate = rate
}

// SetLockTime sets nLockTime.
func (b *Builder) SetLockTime(lockTime uint32) {
	b.lockTime = lockTime
}

// Inputs returns the inputs added so far.
func (b *Builder) Inputs() []Input {
	return b.inputs
}

// Build constructs and unlocks the transaction.
//
// Layout:
//
//	inputs:  in AddInput order
//	outputs: in AddOutput order, then change (if enabled and above dust)
//
// The fee is estimated from script lengths; the build fails with
// ErrInsufficientFunds when inputs cannot cover outputs plus that fee.
func (b *Builder) Build() (*Built, error) {
	if len(b.inputs) == 0 {
		return nil, ErrNoInputs
	}
	for i, in := range b.inputs {
		if in.Unlocker == nil {
			return nil, fmt.Errorf("%w: input[%d] unlocker", ErrNilParam, i)
		}
	}
	for i, out := range b.outputs {
		if len(out.LockingScript) == 0 {
			return nil, fmt.Errorf("%w: output[%d] has empty locking script", ErrScriptBuild, i)
		}
		if out.Amount < DustLimit {
			return nil, fmt.Errorf("%w: output[%d] is %d sat", ErrDustOutput, i, out.Amount)
		}
	}

	feeRate := b.feeRate
	if feeRate == 0 {
		feeRate = DefaultFeeRate
	}

	unlockLens := make([]int, len(b.inputs))
	var totalIn uint64
	for i, in := range b.inputs {
		unlockLens[i] = in.Unlocker.EstimateLength()
		totalIn += in.UTXO.Amount
	}
	lockLens := make([]int, 0, len(b.outputs)+1)
	var totalOut uint64
	for _, out := range b.outputs {
		lockLens = append(lockLens, len(out.LockingScript))
		totalOut += out.Amount
	}

	fee := EstimateFee(EstimateTxSize(unlockLens, lockLens), feeRate)
	if totalIn < totalOut+fee {
		return nil, fmt.Errorf("%w: need %d sat, have %d sat",
			ErrInsufficientFunds, totalOut+fee, totalIn)
	}

	var change *Output
	if !b.noChange && len(b.change) > 0 {
		feeWithChange := EstimateFee(EstimateTxSize(unlockLens, append(lockLens, len(b.change))), feeRate)
		if totalIn >= totalOut+feeWithChange {
			if amount := totalIn - totalOut - feeWithChange; amount >= DustLimit {
				change = &Output{LockingScript: b.change, Amount: amount}
			}
		}
	}

	sdkTx := transaction.NewTransaction()
	sdkTx.LockTime = b.lockTime
	// nLockTime is only enforced when some input is not final.
	sequence := uint32(transaction.DefaultSequenceNumber)
	if b.lockTime > 0 {
		sequence--
	}

	for i, in := range b.inputs {
		hash, err := in.UTXO.Hash()
		if err != nil {
			return nil, fmt.Errorf("input[%d]: %w", i, err)
		}
		sdkTx.AddInput(&transaction.TransactionInput{
			SourceTXID:       hash,
			SourceTxOutIndex: in.UTXO.Vout,
			SequenceNumber:   sequence,
		})
		scriptCode := in.ScriptCode
		if len(scriptCode) == 0 {
			scriptCode = in.UTXO.LockingScript
		}
		sdkTx.Inputs[i].SetSourceTxOutput(&transaction.TransactionOutput{
			Satoshis:      in.UTXO.Amount,
			LockingScript: script.NewFromBytes(scriptCode),
		})
	}

	for _, out := range b.outputs {
		sdkTx.AddOutput(&transaction.TransactionOutput{
			Satoshis:      out.Amount,
			LockingScript: script.NewFromBytes(out.LockingScript),
		})
	}

	changeVout := -1
	if change != nil {
		changeVout = len(sdkTx.Outputs)
		sdkTx.AddOutput(&transaction.TransactionOutput{
			Satoshis:      change.Amount,
			LockingScript: script.NewFromBytes(change.LockingScript),
		})
	}

	// Unlock last: signatures commit to every output.
	for i, in := range b.inputs {
		unlock, err := in.Unlocker.Unlock(sdkTx, i)
		if err != nil {
			return nil, fmt.Errorf("%w: input[%d]: %w", ErrSigningFailed, i, err)
		}
		sdkTx.Inputs[i].UnlockingScript = script.NewFromBytes(unlock)
	}

	paid := totalOut
	if change != nil {
		paid += change.Amount
	}

	return &Built{
		Tx:         sdkTx,
		Fee:        totalIn - paid,
		Change:     change,
		ChangeVout: changeVout,
	}, nil
}

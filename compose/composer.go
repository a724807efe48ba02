// Package compose turns a contract function call, a UTXO selection and the
// requested payments into a signed transaction, and submits it.
package compose

import (
	"context"
	"errors"
	"fmt"

	"github.com/gookit/slog"

	"github.com/bitfsorg/cashbench/contract"
	"github.com/bitfsorg/cashbench/network"
	"github.com/bitfsorg/cashbench/registry"
	"github.com/bitfsorg/cashbench/tx"
)

// Options tune a Composer.
type Options struct {
	// FeeRate in sat/KB; 0 uses tx.DefaultFeeRate.
	FeeRate uint64
	// MaxForfeit caps what a Suppressed-change transaction may leave to the
	// miner. 0 disables the check.
	MaxForfeit uint64
}

// Composer builds and submits contract transactions. It holds no state
// between send actions.
type Composer struct {
	chain     network.BlockchainService
	refresher *registry.Refresher
	opts      Options
}

// New creates a Composer broadcasting through chain and refreshing spent
// addresses through refresher.
func New(chain network.BlockchainService, refresher *registry.Refresher, opts Options) (*Composer, error) {
	if chain == nil {
		return nil, fmt.Errorf("%w: blockchain service", ErrNilService)
	}
	if refresher == nil {
		return nil, fmt.Errorf("%w: refresher", ErrNilService)
	}
	if opts.FeeRate == 0 {
		opts.FeeRate = tx.DefaultFeeRate
	}
	return &Composer{chain: chain, refresher: refresher, opts: opts}, nil
}

// Compose builds and signs the transaction for req. Any error means nothing
// was sent.
func (c *Composer) Compose(ctx context.Context, req Request) (*Draft, error) {
	if req.Contract == nil || req.Call.Name == "" {
		return nil, ErrMissingContractOrFunction
	}
	if _, _, ok := req.Contract.Artifact().Function(req.Call.Name); !ok {
		return nil, fmt.Errorf("%w: %s has no function %q",
			ErrMissingContractOrFunction, req.Contract.Name(), req.Call.Name)
	}

	values := make([]any, len(req.Call.Args))
	for i, arg := range req.Call.Args {
		switch {
		case arg.Unset:
			return nil, fmt.Errorf("%w: argument %d (%s) is unset", ErrMalformedArgument, i, arg.Type)
		case arg.Malformed:
			return nil, fmt.Errorf("%w: argument %d (%s) %q", ErrMalformedArgument, i, arg.Type, arg.Raw)
		}
		values[i] = arg.Value
	}

	call, err := req.Contract.Function(req.Call.Name, values...)
	if err != nil {
		return nil, err
	}
	call.WithFeeRate(c.opts.FeeRate)

	contractSel, keyedSel, err := partition(req)
	if err != nil {
		return nil, err
	}
	if req.Selection.Manual {
		call.Manual()
	}
	for _, in := range contractSel {
		call.From(in.UTXO)
	}
	for _, in := range keyedSel {
		tmpl, err := req.Wallets[in.WalletIndex].SignatureTemplate()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.Name, err)
		}
		if _, err := call.FromP2PKH(in.UTXO, tmpl); err != nil {
			return nil, fmt.Errorf("%s: %w", in.Name, err)
		}
	}

	call.To(req.Outputs...)
	if req.Change == Suppressed {
		call.WithoutChange()
	}

	built, err := call.Build(ctx)
	if err != nil {
		if errors.Is(err, tx.ErrInsufficientFunds) || errors.Is(err, contract.ErrNoUTXOs) {
			return nil, fmt.Errorf("%w: %w", ErrUnderfundedInputs, err)
		}
		return nil, err
	}

	if req.Change == Suppressed && c.opts.MaxForfeit > 0 && built.Fee > c.opts.MaxForfeit {
		return nil, fmt.Errorf("%w: %d sat to the miner, cap %d",
			ErrForfeitExceeded, built.Fee, c.opts.MaxForfeit)
	}

	draft := &Draft{
		Contract: req.Contract.Name(),
		Function: req.Call.Name,
		Outputs:  append([]tx.Recipient(nil), req.Outputs...),
		Change:   req.Change,
		Fee:      built.Fee,
		Tx:       built.Tx,
		net:      req.Contract.Network(),
	}

	// Inputs chosen by the call builder come first.
	auto := len(built.Inputs) - len(contractSel) - len(keyedSel)
	draft.Inputs = append(draft.Inputs, c.labelAuto(req.Contract, built.Inputs[:auto])...)
	for _, e := range contractSel {
		draft.Inputs = append(draft.Inputs, DraftInput{NamedUTXO: e})
	}
	draft.refreshes = []string{req.Contract.Address()}
	seenSigner := map[int]bool{}
	for _, e := range keyedSel {
		id := req.Wallets[e.WalletIndex]
		draft.Inputs = append(draft.Inputs, DraftInput{NamedUTXO: e, Signer: id.Label})
		if !seenSigner[e.WalletIndex] {
			seenSigner[e.WalletIndex] = true
			if addr, err := id.AddressOn(draft.net); err == nil {
				draft.refreshes = append(draft.refreshes, addr)
			}
		}
	}
	if built.ChangeVout >= 0 {
		draft.ChangeOutput = &tx.Recipient{To: req.Contract.Address(), Amount: built.Change}
	}

	slog.WithFields(slog.M{
		"contract": draft.Contract,
		"function": draft.Function,
		"inputs":   len(draft.Inputs),
		"outputs":  len(built.Tx.Outputs),
		"fee":      draft.Fee,
		"change":   req.Change.String(),
	}).Info("transaction composed")
	return draft, nil
}

// labelAuto names automatically selected contract inputs with the labels
// the refresher's last contract set gives them, so a draft and a snapshot
// agree. Outputs the refresher has not seen are named by outpoint.
func (c *Composer) labelAuto(k *contract.Contract, utxos []tx.UTXO) []DraftInput {
	if len(utxos) == 0 {
		return nil
	}
	known := make(map[string]registry.NamedUTXO)
	for _, e := range registry.Build(k.Name(), c.refresher.UTXOs(k.Address()), nil) {
		known[e.Outpoint()] = e
	}
	out := make([]DraftInput, len(utxos))
	for i, u := range utxos {
		e, ok := known[u.Outpoint()]
		if !ok {
			e = registry.NamedUTXO{UTXO: u, Name: u.Outpoint(), Unlock: registry.ContractScript, WalletIndex: -1}
		}
		e.UTXO = u
		out[i] = DraftInput{NamedUTXO: e}
	}
	return out
}

// partition checks a manual selection and splits it by unlock method.
func partition(req Request) (contractSel, keyedSel []registry.NamedUTXO, err error) {
	if !req.Selection.Manual {
		return nil, nil, nil
	}
	seen := make(map[string]bool, len(req.Selection.Inputs))
	for _, in := range req.Selection.Inputs {
		op := in.Outpoint()
		if seen[op] {
			return nil, nil, fmt.Errorf("%w: %s (%s)", ErrDuplicateInput, in.Name, op)
		}
		seen[op] = true

		switch in.Unlock {
		case registry.ContractScript:
			contractSel = append(contractSel, in)
		case registry.KeyedSignature:
			if in.WalletIndex < 0 || in.WalletIndex >= len(req.Wallets) || req.Wallets[in.WalletIndex] == nil {
				return nil, nil, fmt.Errorf("%w: %s wants wallet %d", ErrUnknownWallet, in.Name, in.WalletIndex)
			}
			keyedSel = append(keyedSel, in)
		default:
			return nil, nil, fmt.Errorf("compose: %s has unlock method %s", in.Name, in.Unlock)
		}
	}
	return contractSel, keyedSel, nil
}

// Submit broadcasts the draft once. A rejection wraps ErrSubmissionRejected
// and keeps the boundary's message.
func (c *Composer) Submit(ctx context.Context, draft *Draft) (string, error) {
	if draft == nil || draft.Tx == nil {
		return "", ErrEmptyDraft
	}
	txid, err := c.chain.BroadcastTx(ctx, draft.Tx.Hex())
	if err != nil {
		slog.WithFields(slog.M{"contract": draft.Contract, "function": draft.Function}).
			Errorf("broadcast failed: %v", err)
		return "", fmt.Errorf("%w: %w", ErrSubmissionRejected, err)
	}
	return txid, nil
}

// Send composes, submits and, only after a successful broadcast, refreshes
// the UTXO sets of the contract and of every wallet that signed an input.
func (c *Composer) Send(ctx context.Context, req Request) (*Result, error) {
	draft, err := c.Compose(ctx, req)
	if err != nil {
		return nil, err
	}
	txid, err := c.Submit(ctx, draft)
	if err != nil {
		return nil, err
	}

	res := &Result{TxID: txid, ExplorerURL: draft.net.TxURL(txid), Draft: draft}
	log := slog.WithFields(slog.M{"contract": draft.Contract, "txid": txid})
	log.Info("transaction sent")

	// The send already happened; a stale registry is reported, not returned.
	if err := c.refresher.RefreshAll(ctx, draft.refreshes...); err != nil {
		log.Warnf("utxo refresh after send failed: %v", err)
	}
	return res, nil
}

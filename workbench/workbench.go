// Package workbench ties the store, the blockchain boundary, the derived
// wallets and the composer together for one network.
package workbench

import (
	"context"
	"fmt"

	"github.com/gookit/slog"

	"github.com/bitfsorg/cashbench/coerce"
	"github.com/bitfsorg/cashbench/compose"
	"github.com/bitfsorg/cashbench/contract"
	"github.com/bitfsorg/cashbench/network"
	"github.com/bitfsorg/cashbench/registry"
	"github.com/bitfsorg/cashbench/store"
	"github.com/bitfsorg/cashbench/tx"
	"github.com/bitfsorg/cashbench/wallet"
)

// Workbench is the application state shared by the CLI commands.
type Workbench struct {
	net       *wallet.NetworkConfig
	store     *store.BoltStore
	chain     network.BlockchainService
	refresher *registry.Refresher
	composer  *compose.Composer
	wallets   []*wallet.KeyIdentity
}

// New assembles a Workbench. wallets may be empty; keyed inputs are then
// unavailable.
func New(net *wallet.NetworkConfig, db *store.BoltStore, chain network.BlockchainService,
	wallets []*wallet.KeyIdentity, opts compose.Options) (*Workbench, error) {
	if net == nil || db == nil || chain == nil {
		return nil, ErrNilParam
	}
	refresher, err := registry.NewRefresher(chain)
	if err != nil {
		return nil, err
	}
	composer, err := compose.New(chain, refresher, opts)
	if err != nil {
		return nil, err
	}
	return &Workbench{
		net:       net,
		store:     db,
		chain:     chain,
		refresher: refresher,
		composer:  composer,
		wallets:   wallets,
	}, nil
}

// Network returns the network the workbench operates on.
func (w *Workbench) Network() *wallet.NetworkConfig { return w.net }

// Chain returns the blockchain boundary.
func (w *Workbench) Chain() network.BlockchainService { return w.chain }

// Store returns the artifact and binding store.
func (w *Workbench) Store() *store.BoltStore { return w.store }

// Composer returns the transaction composer.
func (w *Workbench) Composer() *compose.Composer { return w.composer }

// Wallets returns the derived key identities in configured order.
func (w *Workbench) Wallets() []*wallet.KeyIdentity { return w.wallets }

// Wallet looks a key identity up by label.
func (w *Workbench) Wallet(label string) (*wallet.KeyIdentity, int, error) {
	for i, id := range w.wallets {
		if id.Label == label {
			return id, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %q", ErrUnknownWallet, label)
}

// AddArtifact loads a compiled artifact from path and stores it under its
// contract name, replacing any previous version.
func (w *Workbench) AddArtifact(path string) (*contract.Artifact, error) {
	a, err := contract.LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	if err := w.store.PutArtifact(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Bind instantiates artifact with the raw constructor arguments and saves
// the result as a named binding on the current network.
func (w *Workbench) Bind(name, artifact string, raws []string) (*store.Binding, *contract.Contract, error) {
	a, err := w.store.GetArtifact(artifact)
	if err != nil {
		return nil, nil, err
	}
	c, err := w.instantiate(a, raws)
	if err != nil {
		return nil, nil, err
	}
	b := &store.Binding{
		Name:     name,
		Artifact: a.ContractName,
		Network:  w.net.Name,
		Args:     append([]string(nil), raws...),
		Address:  c.Address(),
	}
	if err := w.store.PutBinding(b); err != nil {
		return nil, nil, err
	}
	slog.WithFields(slog.M{"binding": name, "artifact": artifact, "address": b.Address}).Info("contract bound")
	return b, c, nil
}

// Contract rebuilds the contract of a stored binding.
func (w *Workbench) Contract(name string) (*contract.Contract, error) {
	b, err := w.store.GetBinding(name)
	if err != nil {
		return nil, err
	}
	if b.Network != w.net.Name {
		return nil, fmt.Errorf("%w: %s is on %s, workbench on %s", ErrNetworkMismatch, name, b.Network, w.net.Name)
	}
	a, err := w.store.GetArtifact(b.Artifact)
	if err != nil {
		return nil, err
	}
	return w.instantiate(a, b.Args)
}

func (w *Workbench) instantiate(a *contract.Artifact, raws []string) (*contract.Contract, error) {
	args, err := coerce.CoerceAll(raws, a.ConstructorInputs)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(args))
	for i, arg := range args {
		if !arg.Usable() {
			return nil, fmt.Errorf("%w: %s = %q", ErrUnusableArgument, a.ConstructorInputs[i].Name, arg.Raw)
		}
		values[i] = arg.Value
	}
	return contract.New(a, values, w.chain, w.net)
}

// Snapshot refreshes the contract and wallet addresses and returns the
// labeled UTXO list built from the fresh sets.
func (w *Workbench) Snapshot(ctx context.Context, c *contract.Contract) (*registry.Snapshot, error) {
	addrs := make([]string, 0, len(w.wallets)+1)
	addrs = append(addrs, c.Address())
	for _, id := range w.wallets {
		addr, err := id.AddressOn(w.net)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	if err := w.refresher.RefreshAll(ctx, addrs...); err != nil {
		return nil, err
	}
	owners := make([]registry.Owner, len(w.wallets))
	for i, id := range w.wallets {
		owners[i] = registry.Owner{Name: id.Label, UTXOs: w.refresher.UTXOs(addrs[i+1])}
	}
	return registry.NewSnapshot(registry.Build(c.Name(), w.refresher.UTXOs(addrs[0]), owners)), nil
}

// CallRequest is a contract call as typed by the user.
type CallRequest struct {
	Binding  string
	Function string
	// Args are raw text in ABI order. A sig argument may name a wallet.
	Args     []string
	Inputs   []string // registry labels; empty selects automatically
	Outputs  []tx.Recipient
	NoChange bool
}

// Prepare resolves req into a composer request.
func (w *Workbench) Prepare(ctx context.Context, req CallRequest) (compose.Request, error) {
	c, err := w.Contract(req.Binding)
	if err != nil {
		return compose.Request{}, err
	}
	fn, _, ok := c.Artifact().Function(req.Function)
	if !ok {
		return compose.Request{}, fmt.Errorf("%w: %s has no function %q",
			compose.ErrMissingContractOrFunction, c.Name(), req.Function)
	}
	if len(req.Args) != len(fn.Inputs) {
		return compose.Request{}, fmt.Errorf("%w: want %d, got %d", coerce.ErrArgumentCount, len(fn.Inputs), len(req.Args))
	}

	args := make([]coerce.Argument, len(fn.Inputs))
	for i, p := range fn.Inputs {
		if p.Type == "sig" {
			if id, _, err := w.Wallet(req.Args[i]); err == nil {
				if args[i], err = coerce.CoerceSignature(id); err != nil {
					return compose.Request{}, err
				}
				continue
			}
		}
		if args[i], err = coerce.Coerce(req.Args[i], p.Type); err != nil {
			return compose.Request{}, fmt.Errorf("%s: %w", p.Name, err)
		}
	}

	out := compose.Request{
		Contract:  c,
		Call:      compose.FunctionCall{Name: req.Function, Args: args},
		Selection: compose.Automatic(),
		Outputs:   req.Outputs,
		Wallets:   w.wallets,
	}
	if req.NoChange {
		out.Change = compose.Suppressed
	}
	if len(req.Inputs) > 0 {
		snap, err := w.Snapshot(ctx, c)
		if err != nil {
			return compose.Request{}, err
		}
		sel, err := snap.Select(req.Inputs...)
		if err != nil {
			return compose.Request{}, err
		}
		out.Selection = compose.Manual(sel...)
	}
	return out, nil
}

// Compose prepares and composes req without submitting it.
func (w *Workbench) Compose(ctx context.Context, req CallRequest) (*compose.Draft, error) {
	r, err := w.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return w.composer.Compose(ctx, r)
}

// Send prepares, composes and submits req.
func (w *Workbench) Send(ctx context.Context, req CallRequest) (*compose.Result, error) {
	r, err := w.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return w.composer.Send(ctx, r)
}

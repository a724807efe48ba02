// Package contract binds compiled contract artifacts to constructor arguments
// and builds transactions that call their functions.
package contract

import (
	"context"
	"fmt"
	"sort"

	"github.com/bitfsorg/cashbench/cashaddr"
	"github.com/bitfsorg/cashbench/network"
	"github.com/bitfsorg/cashbench/tx"
	"github.com/bitfsorg/cashbench/wallet"
)

// Contract is an artifact instantiated with constructor arguments. Its redeem
// script, and therefore its address, is fixed at construction.
type Contract struct {
	artifact *Artifact
	net      *wallet.NetworkConfig
	chain    network.BlockchainService

	redeem  []byte
	lock    []byte
	address string
}

// New instantiates artifact with args, one per constructor input.
func New(artifact *Artifact, args []any, chain network.BlockchainService, net *wallet.NetworkConfig) (*Contract, error) {
	if artifact == nil {
		return nil, fmt.Errorf("%w: artifact", ErrNilParam)
	}
	if net == nil {
		return nil, fmt.Errorf("%w: network", ErrNilParam)
	}
	if len(args) != len(artifact.ConstructorInputs) {
		return nil, fmt.Errorf("%w: %s constructor takes %d, got %d",
			ErrArgumentCount, artifact.ContractName, len(artifact.ConstructorInputs), len(args))
	}

	base, err := Assemble(artifact.Bytecode)
	if err != nil {
		return nil, err
	}

	// Constructor arguments are pushed last-first ahead of the bytecode.
	var redeem []byte
	for i := len(args) - 1; i >= 0; i-- {
		p := artifact.ConstructorInputs[i]
		enc, err := EncodeArgument(p.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("constructor arg %s: %w", p.Name, err)
		}
		redeem = append(redeem, tx.PushData(enc)...)
	}
	redeem = append(redeem, base...)

	hash := tx.Hash160(redeem)
	lock, err := tx.BuildP2SHScript(hash)
	if err != nil {
		return nil, err
	}
	address, err := cashaddr.Encode(net.CashAddrPrefix, cashaddr.P2SH, hash)
	if err != nil {
		return nil, fmt.Errorf("contract: encode address: %w", err)
	}

	return &Contract{
		artifact: artifact,
		net:      net,
		chain:    chain,
		redeem:   redeem,
		lock:     lock,
		address:  address,
	}, nil
}

// Name returns the artifact's contract name.
func (c *Contract) Name() string { return c.artifact.ContractName }

// Artifact returns the artifact the contract was built from.
func (c *Contract) Artifact() *Artifact { return c.artifact }

// Network returns the network the contract address is encoded for.
func (c *Contract) Network() *wallet.NetworkConfig { return c.net }

// Address returns the P2SH CashAddr of the contract.
func (c *Contract) Address() string { return c.address }

// RedeemScript returns a copy of the redeem script.
func (c *Contract) RedeemScript() []byte { return append([]byte(nil), c.redeem...) }

// LockingScript returns a copy of the P2SH locking script.
func (c *Contract) LockingScript() []byte { return append([]byte(nil), c.lock...) }

// GetUTXOs fetches the contract's unspent outputs, largest first.
func (c *Contract) GetUTXOs(ctx context.Context) ([]tx.UTXO, error) {
	if c.chain == nil {
		return nil, fmt.Errorf("%w: blockchain service", ErrNilParam)
	}
	raw, err := c.chain.ListUnspent(ctx, c.address)
	if err != nil {
		return nil, fmt.Errorf("contract: list %s utxos: %w", c.Name(), err)
	}
	out := make([]tx.UTXO, 0, len(raw))
	for _, u := range raw {
		out = append(out, tx.UTXO{
			TxID:          u.TxID,
			Vout:          u.Vout,
			Amount:        u.Amount,
			LockingScript: c.LockingScript(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Outpoint() < out[j].Outpoint()
	})
	return out, nil
}

// GetBalance sums the contract's unspent outputs.
func (c *Contract) GetBalance(ctx context.Context) (uint64, error) {
	utxos, err := c.GetUTXOs(ctx)
	if err != nil {
		return 0, err
	}
	return tx.SumUTXOs(utxos), nil
}

package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gookit/slog"
	"golang.org/x/sync/errgroup"

	"github.com/bitfsorg/cashbench/network"
	"github.com/bitfsorg/cashbench/tx"
)

// Refresher tracks the UTXO set of each watched address. Every refresh
// installs a new map; sets handed out earlier are never modified.
type Refresher struct {
	chain network.BlockchainService

	mu    sync.RWMutex
	state map[string][]tx.UTXO
}

// NewRefresher creates a Refresher reading from chain.
func NewRefresher(chain network.BlockchainService) (*Refresher, error) {
	if chain == nil {
		return nil, ErrNilService
	}
	return &Refresher{
		chain: chain,
		state: map[string][]tx.UTXO{},
	}, nil
}

// UTXOs returns the last fetched set for address, sorted by outpoint.
func (r *Refresher) UTXOs(address string) []tx.UTXO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]tx.UTXO(nil), r.state[address]...)
}

// Refresh fetches address and replaces its set.
func (r *Refresher) Refresh(ctx context.Context, address string) ([]tx.UTXO, error) {
	utxos, err := r.fetch(ctx, address)
	if err != nil {
		return nil, err
	}
	r.install(map[string][]tx.UTXO{address: utxos})
	return append([]tx.UTXO(nil), utxos...), nil
}

// RefreshAll fetches every address concurrently. Nothing is installed unless
// every fetch succeeds.
func (r *Refresher) RefreshAll(ctx context.Context, addresses ...string) error {
	results := make([][]tx.UTXO, len(addresses))
	g, gctx := errgroup.WithContext(ctx)
	for i, addr := range addresses {
		g.Go(func() error {
			utxos, err := r.fetch(gctx, addr)
			if err != nil {
				return err
			}
			results[i] = utxos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fresh := make(map[string][]tx.UTXO, len(addresses))
	for i, addr := range addresses {
		fresh[addr] = results[i]
	}
	r.install(fresh)
	return nil
}

func (r *Refresher) install(fresh map[string][]tx.UTXO) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := make(map[string][]tx.UTXO, len(r.state)+len(fresh))
	for k, v := range r.state {
		next[k] = v
	}
	for k, v := range fresh {
		next[k] = v
	}
	r.state = next
}

// fetch lists address and sorts by outpoint so labels stay put when the
// backend reorders its answer.
func (r *Refresher) fetch(ctx context.Context, address string) ([]tx.UTXO, error) {
	raw, err := r.chain.ListUnspent(ctx, address)
	if err != nil {
		slog.WithFields(slog.M{"address": address}).Warnf("utxo refresh failed: %v", err)
		return nil, fmt.Errorf("registry: refresh %s: %w", address, err)
	}
	out := make([]tx.UTXO, 0, len(raw))
	for _, u := range raw {
		lock, err := u.LockingScript()
		if err != nil {
			return nil, fmt.Errorf("registry: refresh %s: %w", address, err)
		}
		out = append(out, tx.UTXO{TxID: u.TxID, Vout: u.Vout, Amount: u.Amount, LockingScript: lock})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TxID != out[j].TxID {
			return out[i].TxID < out[j].TxID
		}
		return out[i].Vout < out[j].Vout
	})
	slog.WithFields(slog.M{"address": address, "count": len(out)}).Debug("utxos refreshed")
	return out, nil
}

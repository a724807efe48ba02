// Package registry labels contract-owned and wallet-owned UTXOs so callers
// can pick transaction inputs by name, and keeps per-address UTXO sets fresh.
package registry

import (
	"fmt"

	"github.com/bitfsorg/cashbench/tx"
)

// UnlockMethod says how an input spending a UTXO is authorized.
type UnlockMethod int

const (
	// ContractScript inputs are unlocked by the contract function's arguments.
	ContractScript UnlockMethod = iota
	// KeyedSignature inputs are unlocked by a P2PKH signature of their owner.
	KeyedSignature
)

func (m UnlockMethod) String() string {
	switch m {
	case ContractScript:
		return "contract"
	case KeyedSignature:
		return "p2pkh"
	default:
		return fmt.Sprintf("UnlockMethod(%d)", int(m))
	}
}

// NamedUTXO is a UTXO with a selection label and its unlock method.
// WalletIndex points into the owner list given to Build; it is -1 for
// contract entries.
type NamedUTXO struct {
	tx.UTXO
	Name        string       `json:"name"`
	Unlock      UnlockMethod `json:"unlock"`
	WalletIndex int          `json:"wallet_index"`
}

// Owner is a key holder and the UTXOs paying to its address.
type Owner struct {
	Name  string
	UTXOs []tx.UTXO
}

// Build labels every contract UTXO, then every owner's UTXOs in owner order.
// Labels are "<owner> UTXO <i>" with i counted per owner. The result is a
// fresh slice; identical inputs give identical output.
func Build(contractName string, contractUTXOs []tx.UTXO, wallets []Owner) []NamedUTXO {
	n := len(contractUTXOs)
	for _, w := range wallets {
		n += len(w.UTXOs)
	}
	out := make([]NamedUTXO, 0, n)
	for i, u := range contractUTXOs {
		out = append(out, NamedUTXO{
			UTXO:        u,
			Name:        label(contractName, i),
			Unlock:      ContractScript,
			WalletIndex: -1,
		})
	}
	for wi, w := range wallets {
		for i, u := range w.UTXOs {
			out = append(out, NamedUTXO{
				UTXO:        u,
				Name:        label(w.Name, i),
				Unlock:      KeyedSignature,
				WalletIndex: wi,
			})
		}
	}
	return out
}

func label(owner string, i int) string {
	return fmt.Sprintf("%s UTXO %d", owner, i)
}

// Snapshot is a read-only view of a built registry.
type Snapshot struct {
	entries []NamedUTXO
	byName  map[string]int
}

// NewSnapshot copies entries into a Snapshot. When two entries share a
// label the first wins lookups.
func NewSnapshot(entries []NamedUTXO) *Snapshot {
	s := &Snapshot{
		entries: append([]NamedUTXO(nil), entries...),
		byName:  make(map[string]int, len(entries)),
	}
	for i, e := range s.entries {
		if _, ok := s.byName[e.Name]; !ok {
			s.byName[e.Name] = i
		}
	}
	return s
}

// Entries returns a copy of the entries in registry order.
func (s *Snapshot) Entries() []NamedUTXO {
	return append([]NamedUTXO(nil), s.entries...)
}

// Len returns the number of entries.
func (s *Snapshot) Len() int { return len(s.entries) }

// Lookup finds an entry by label.
func (s *Snapshot) Lookup(name string) (NamedUTXO, bool) {
	i, ok := s.byName[name]
	if !ok {
		return NamedUTXO{}, false
	}
	return s.entries[i], true
}

// Select resolves labels to entries in the order given. Selecting the same
// outpoint twice fails with ErrDuplicateSelection.
func (s *Snapshot) Select(names ...string) ([]NamedUTXO, error) {
	out := make([]NamedUTXO, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		e, ok := s.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
		}
		op := e.Outpoint()
		if seen[op] {
			return nil, fmt.Errorf("%w: %s (%s)", ErrDuplicateSelection, name, op)
		}
		seen[op] = true
		out = append(out, e)
	}
	return out, nil
}

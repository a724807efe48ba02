package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
)

const (
	// BIP44 path constants.
	PurposeBIP44     = 44
	CoinTypeBCH      = 145
	WorkbenchAccount = 0

	// Chain indices.
	ExternalChain = 0 // Receive addresses
	InternalChain = 1 // Change addresses

	// MaxIndex is the largest non-hardened BIP32 index.
	MaxIndex = 1<<31 - 1

	// BIP32 hardened offset.
	Hardened = 0x80000000
)

// Wallet is an HD key source for workbench identities.
//
// Key hierarchy: m/44'/145'/{account}'/{chain}/{index}
type Wallet struct {
	masterKey *bip32.ExtendedKey
	network   *NetworkConfig
}

// KeyPair holds a derived public/private key pair.
type KeyPair struct {
	PrivateKey *ec.PrivateKey `json:"-"`
	PublicKey  *ec.PublicKey  `json:"public_key"`
	Path       string         `json:"path"` // Human-readable derivation path
}

// NewWallet creates a new Wallet from a BIP39 seed.
func NewWallet(seed []byte, network *NetworkConfig) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	if network == nil {
		network = &MainNet
	}

	net := &chaincfg.TestNet
	if network.Mainnet {
		net = &chaincfg.MainNet
	}

	masterKey, err := bip32.NewMaster(seed, net)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}

	return &Wallet{
		masterKey: masterKey,
		network:   network,
	}, nil
}

// Network returns the wallet's network configuration.
func (w *Wallet) Network() *NetworkConfig {
	return w.network
}

// DeriveKey derives m/44'/145'/account'/chain/index.
func (w *Wallet) DeriveKey(account, chain, index uint32) (*KeyPair, error) {
	if account > MaxIndex || index > MaxIndex {
		return nil, ErrIndexOutOfRange
	}
	if chain != ExternalChain && chain != InternalChain {
		return nil, fmt.Errorf("%w: chain %d", ErrDerivationFailed, chain)
	}

	key := w.masterKey
	steps := []struct {
		name  string
		index uint32
	}{
		{"purpose", PurposeBIP44 + Hardened},
		{"coin type", CoinTypeBCH + Hardened},
		{"account", account + Hardened},
		{"chain", chain},
		{"index", index},
	}
	for _, s := range steps {
		var err error
		key, err = key.Child(s.index)
		if err != nil {
			return nil, fmt.Errorf("%w: %s derivation: %w", ErrDerivationFailed, s.name, err)
		}
	}

	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to extract EC private key: %w", ErrDerivationFailed, err)
	}

	return &KeyPair{
		PrivateKey: privKey,
		PublicKey:  privKey.PubKey(),
		Path:       fmt.Sprintf("m/44'/145'/%d'/%d/%d", account, chain, index),
	}, nil
}

// DeriveIdentity derives the index-th receive key of the workbench account
// and wraps it as a KeyIdentity.
func (w *Wallet) DeriveIdentity(label string, index uint32) (*KeyIdentity, error) {
	kp, err := w.DeriveKey(WorkbenchAccount, ExternalChain, index)
	if err != nil {
		return nil, err
	}
	return NewKeyIdentity(label, kp.PrivateKey)
}

package wallet

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bitfsorg/cashbench/cashaddr"
	"github.com/bitfsorg/cashbench/tx"
)

// KeyIdentity is one named key: the private key plus the values derived from it.
// The composer never reads PrivateKey directly; it asks for a SignatureTemplate.
type KeyIdentity struct {
	Label          string         `json:"label"`
	PrivateKey     *ec.PrivateKey `json:"-"`
	PublicKeyHash  []byte         `json:"public_key_hash"`
	Address        string         `json:"address"`
	TestnetAddress string         `json:"testnet_address"`
}

// NewKeyIdentity derives the public key hash and both addresses from key.
func NewKeyIdentity(label string, key *ec.PrivateKey) (*KeyIdentity, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	pkh := tx.Hash160(key.PubKey().Compressed())

	mainAddr, err := cashaddr.Encode(cashaddr.PrefixMainnet, cashaddr.P2PKH, pkh)
	if err != nil {
		return nil, fmt.Errorf("wallet: encode address: %w", err)
	}
	testAddr, err := cashaddr.Encode(cashaddr.PrefixTestnet, cashaddr.P2PKH, pkh)
	if err != nil {
		return nil, fmt.Errorf("wallet: encode testnet address: %w", err)
	}

	return &KeyIdentity{
		Label:          label,
		PrivateKey:     key,
		PublicKeyHash:  pkh,
		Address:        mainAddr,
		TestnetAddress: testAddr,
	}, nil
}

// GenerateKeyIdentity creates an identity around a fresh random key.
func GenerateKeyIdentity(label string) (*KeyIdentity, error) {
	key, err := ec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("wallet: generate key: %w", err)
	}
	return NewKeyIdentity(label, key)
}

// KeyIdentityFromWIF restores an identity from a WIF private key.
func KeyIdentityFromWIF(label, wif string) (*KeyIdentity, error) {
	key, err := ec.PrivateKeyFromWif(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return NewKeyIdentity(label, key)
}

// WIF returns the private key in wallet import format.
func (k *KeyIdentity) WIF() string {
	return k.PrivateKey.Wif()
}

// AddressOn returns the identity's P2PKH address under the network's prefix.
func (k *KeyIdentity) AddressOn(net *NetworkConfig) (string, error) {
	if net == nil {
		net = &MainNet
	}
	return cashaddr.Encode(net.CashAddrPrefix, cashaddr.P2PKH, k.PublicKeyHash)
}

// SignatureTemplate returns the signing capability for this identity.
func (k *KeyIdentity) SignatureTemplate() (*tx.SignatureTemplate, error) {
	if k == nil || k.PrivateKey == nil {
		return nil, fmt.Errorf("%w: identity has no key", ErrInvalidKey)
	}
	return tx.NewSignatureTemplate(k.PrivateKey)
}

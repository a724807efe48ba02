package workbench

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/cashbench/wallet"
)

// DeriveWallets derives one key identity per label from mnemonic, label i
// taking receive index i. Nothing is persisted.
func DeriveWallets(mnemonic string, labels []string, net *wallet.NetworkConfig) ([]*wallet.KeyIdentity, error) {
	seed, err := wallet.SeedFromMnemonic(strings.TrimSpace(mnemonic), "")
	if err != nil {
		return nil, err
	}
	hd, err := wallet.NewWallet(seed, net)
	if err != nil {
		return nil, err
	}
	ids := make([]*wallet.KeyIdentity, len(labels))
	for i, label := range labels {
		id, err := hd.DeriveIdentity(label, uint32(i))
		if err != nil {
			return nil, fmt.Errorf("wallet %s: %w", label, err)
		}
		ids[i] = id
	}
	return ids, nil
}

package wallet

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitfsorg/cashbench/cashaddr"
)

// NetworkConfig defines address and explorer parameters for a Bitcoin Cash network.
type NetworkConfig struct {
	Name           string `json:"name"`
	CashAddrPrefix string `json:"cashaddr_prefix"`
	Explorer       string `json:"explorer"` // base URL, empty when there is none
	Mainnet        bool   `json:"mainnet"`  // selects BIP32 version bytes
}

// Predefined network configurations.
var (
	MainNet = NetworkConfig{
		Name:           "mainnet",
		CashAddrPrefix: cashaddr.PrefixMainnet,
		Explorer:       "https://explorer.bitcoin.com/bch",
		Mainnet:        true,
	}

	TestNet = NetworkConfig{
		Name:           "testnet",
		CashAddrPrefix: cashaddr.PrefixTestnet,
		Explorer:       "http://testnet.imaginary.cash",
	}

	ChipNet = NetworkConfig{
		Name:           "chipnet",
		CashAddrPrefix: cashaddr.PrefixTestnet,
		Explorer:       "https://chipnet.imaginary.cash",
	}

	RegTest = NetworkConfig{
		Name:           "regtest",
		CashAddrPrefix: cashaddr.PrefixRegtest,
	}
)

// predefined maps network names to their configs.
var predefined = map[string]*NetworkConfig{
	"mainnet": &MainNet,
	"testnet": &TestNet,
	"chipnet": &ChipNet,
	"regtest": &RegTest,
}

// GetNetwork returns a predefined network by name.
// If the name is not predefined, it returns ErrInvalidNetwork.
func GetNetwork(name string) (*NetworkConfig, error) {
	if net, ok := predefined[name]; ok {
		return net, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}

// LoadCustomNetwork loads a NetworkConfig from a JSON file.
func LoadCustomNetwork(path string) (*NetworkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: failed to read network config: %w", err)
	}

	var config NetworkConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("wallet: failed to parse network config: %w", err)
	}

	if config.Name == "" {
		return nil, fmt.Errorf("wallet: network config must have a name")
	}
	if config.CashAddrPrefix == "" {
		return nil, fmt.Errorf("wallet: network config must have a cashaddr prefix")
	}

	return &config, nil
}

// TxURL returns the explorer link for txid, or "" when the network has no explorer.
func (n *NetworkConfig) TxURL(txid string) string {
	if n == nil || n.Explorer == "" {
		return ""
	}
	return n.Explorer + "/tx/" + txid
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gookit/slog"
	"github.com/spf13/cobra"

	"github.com/bitfsorg/cashbench/compose"
	"github.com/bitfsorg/cashbench/config"
	"github.com/bitfsorg/cashbench/logging"
	"github.com/bitfsorg/cashbench/network"
	"github.com/bitfsorg/cashbench/store"
	"github.com/bitfsorg/cashbench/wallet"
	"github.com/bitfsorg/cashbench/workbench"
)

// mnemonicEnv holds the BIP39 phrase the wallets are derived from.
const mnemonicEnv = "CASHBENCH_MNEMONIC"

var (
	cfgFile  string
	mnemonic string
	flagCfg  config.Config
	cfg      config.Config
	closeLog func() error
)

var rootCmd = &cobra.Command{
	Use:   "cashbench",
	Short: "Compose and send CashScript contract transactions",
	Long: `cashbench binds compiled CashScript artifacts to constructor arguments,
lists the UTXOs of the contract and of your wallets under stable names, and
composes, signs and broadcasts transactions calling a contract function.

Wallets are derived from the mnemonic in $CASHBENCH_MNEMONIC (or --mnemonic),
one per label in the config "wallets" list. Keys are never stored.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		closeLog, err = logging.Setup(cfg.LogLevel, cfg.LogFile)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLog != nil {
			return closeLog()
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ~/.cashbench/config.yaml)")
	pf.StringVar(&flagCfg.Network, "network", "", "mainnet, testnet, chipnet or regtest")
	pf.StringVar(&flagCfg.Backend, "backend", "", "rpc or indexer")
	pf.StringVar(&flagCfg.RPCURL, "rpc-url", "", "node or indexer URL")
	pf.StringVar(&flagCfg.RPCUser, "rpc-user", "", "RPC username")
	pf.StringVar(&flagCfg.RPCPass, "rpc-pass", "", "RPC password")
	pf.StringVar(&flagCfg.DataDir, "datadir", "", "data directory")
	pf.StringVar(&flagCfg.LogLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&mnemonic, "mnemonic", "", "BIP39 mnemonic (default: $"+mnemonicEnv+")")

	rootCmd.AddCommand(
		initCmd,
		heightCmd,
		utxosCmd,
		rawTxCmd,
		walletCmd,
		artifactCmd,
		contractCmd,
		callCmd,
	)
}

// loadConfig reads the config file when present, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.ConfigPath(config.DefaultDataDir())
	}
	loader := config.NewLoader(config.EnvPrefix)
	if err := loader.SetConfigFilePath(path); err != nil {
		return config.Config{}, err
	}
	c, err := loader.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("network", &c.Network, flagCfg.Network)
	override("backend", &c.Backend, flagCfg.Backend)
	override("rpc-url", &c.RPCURL, flagCfg.RPCURL)
	override("rpc-user", &c.RPCUser, flagCfg.RPCUser)
	override("rpc-pass", &c.RPCPass, flagCfg.RPCPass)
	override("datadir", &c.DataDir, flagCfg.DataDir)
	override("log-level", &c.LogLevel, flagCfg.LogLevel)

	if err := config.ValidateConfig(c); err != nil {
		return config.Config{}, err
	}
	return c, nil
}

// openChain resolves the backend for the configured network.
func openChain() (network.BlockchainService, error) {
	backend, err := network.ResolveConfig(cfg.BackendConfig(), nil, cfg.Network)
	if err != nil {
		return nil, err
	}
	return network.NewService(backend)
}

// openWorkbench opens the store and the backend and derives the wallets.
// The caller closes the returned store.
func openWorkbench() (*workbench.Workbench, *store.BoltStore, error) {
	net, err := wallet.GetNetwork(cfg.Network)
	if err != nil {
		return nil, nil, err
	}
	chain, err := openChain()
	if err != nil {
		return nil, nil, err
	}
	wallets, err := deriveWallets(net)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.OpenBoltStore(config.DBPath(cfg.DataDir))
	if err != nil {
		return nil, nil, err
	}
	wb, err := workbench.New(net, db, chain, wallets, compose.Options{
		FeeRate:    cfg.FeeRate,
		MaxForfeit: cfg.MaxForfeit,
	})
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return wb, db, nil
}

// deriveWallets returns no wallets when no mnemonic is configured.
func deriveWallets(net *wallet.NetworkConfig) ([]*wallet.KeyIdentity, error) {
	phrase := mnemonic
	if phrase == "" {
		phrase = os.Getenv(mnemonicEnv)
	}
	if phrase == "" {
		slog.Debug("no mnemonic configured, wallets unavailable")
		return nil, nil
	}
	ids, err := workbench.DeriveWallets(phrase, cfg.Wallets, net)
	if errors.Is(err, wallet.ErrInvalidMnemonic) {
		return nil, fmt.Errorf("%w (from --mnemonic or $%s)", err, mnemonicEnv)
	}
	return ids, err
}

// initCmd writes the default config file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.ConfigPath(cfg.DataDir)
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.SaveConfig(path, cfg); err != nil {
			return err
		}
		fmt.Println(success("wrote " + path))
		return nil
	},
}

// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads workbench settings from defaults, a YAML or JSON
// file and CASHBENCH_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gookit/slog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bitfsorg/cashbench/network"
)

// EnvPrefix prefixes every environment override, e.g. CASHBENCH_NETWORK.
const EnvPrefix = "CASHBENCH"

// Config holds the workbench settings. Keys are flat so each maps to one
// environment variable.
type Config struct {
	DataDir  string `mapstructure:"datadir" yaml:"datadir"`
	Network  string `mapstructure:"network" yaml:"network"`
	LogLevel string `mapstructure:"loglevel" yaml:"loglevel"`
	LogFile  string `mapstructure:"logfile" yaml:"logfile"`

	Backend    string        `mapstructure:"backend" yaml:"backend"`
	RPCURL     string        `mapstructure:"rpc_url" yaml:"rpc_url"`
	RPCUser    string        `mapstructure:"rpc_user" yaml:"rpc_user"`
	RPCPass    string        `mapstructure:"rpc_pass" yaml:"rpc_pass"`
	RPCTimeout time.Duration `mapstructure:"rpc_timeout" yaml:"rpc_timeout"`

	FeeRate    uint64 `mapstructure:"feerate" yaml:"feerate"`       // sat/KB
	MaxForfeit uint64 `mapstructure:"maxforfeit" yaml:"maxforfeit"` // 0 = no cap

	// Wallets are labels for keys derived from the mnemonic, by position.
	Wallets []string `mapstructure:"wallets" yaml:"wallets"`
}

// DefaultDataDir returns ~/.cashbench, or .cashbench when the home
// directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cashbench"
	}
	return filepath.Join(home, ".cashbench")
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Network:  "regtest",
		LogLevel: "info",
		Backend:  network.BackendRPC,
		FeeRate:  1000,
		Wallets:  []string{"alice", "bob"},
	}
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.yaml")
}

// DBPath returns the database path inside dataDir.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "cashbench.db")
}

// BackendConfig returns the network backend settings held in cfg.
func (c Config) BackendConfig() *network.Config {
	return &network.Config{
		Backend:  c.Backend,
		URL:      c.RPCURL,
		User:     c.RPCUser,
		Password: c.RPCPass,
		Network:  c.Network,
		Timeout:  c.RPCTimeout,
	}
}

// Loader layers defaults, a config file and the environment through viper.
type Loader struct {
	cfg            Config
	envPrefix      string
	configFilePath string
	viper          *viper.Viper
}

// NewLoader creates a Loader reading envPrefix_* variables.
func NewLoader(envPrefix string) *Loader {
	return &Loader{
		cfg:       DefaultConfig(),
		envPrefix: envPrefix,
		viper:     viper.New(),
	}
}

// SetConfigFilePath selects the file to read. Only yaml, yml and json are
// accepted.
func (l *Loader) SetConfigFilePath(path string) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext != "yaml" && ext != "yml" && ext != "json" {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	l.configFilePath = path
	return nil
}

// Load returns the merged configuration. A missing file is not an error.
func (l *Loader) Load() (Config, error) {
	l.setViperDefaults()
	l.viper.SetEnvPrefix(l.envPrefix)
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.viper.AutomaticEnv()

	if err := l.loadFromFile(); err != nil {
		return l.cfg, err
	}
	// viper carries the defaults; decoding over l.cfg would merge slices.
	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return l.cfg, fmt.Errorf("config: unmarshal: %w", err)
	}
	l.cfg = cfg
	return l.cfg, nil
}

func (l *Loader) setViperDefaults() {
	defaults := map[string]any{}
	if err := mapstructure.Decode(DefaultConfig(), &defaults); err != nil {
		slog.Errorf("error while setting config defaults: %v", err)
		return
	}
	for k, v := range defaults {
		l.viper.SetDefault(k, v)
	}
}

func (l *Loader) loadFromFile() error {
	if l.configFilePath == "" {
		return nil
	}
	if _, err := os.Stat(l.configFilePath); errors.Is(err, os.ErrNotExist) {
		slog.Debugf("config file %s not found, using defaults", l.configFilePath)
		return nil
	}
	l.viper.SetConfigFile(l.configFilePath)
	if err := l.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", l.configFilePath, err)
	}
	slog.Debugf("loaded config from %s", l.configFilePath)
	return nil
}

// LoadConfig reads path strictly: the file must exist.
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	l := NewLoader(EnvPrefix)
	if err := l.SetConfigFilePath(path); err != nil {
		return Config{}, err
	}
	return l.Load()
}

// SaveConfig writes cfg as YAML, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	out := append([]byte("# cashbench configuration\n"), data...)
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

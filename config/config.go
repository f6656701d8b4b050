package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/VaultTeam/vault-go-node/cmd/utils"
)

const (
	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"
	// LogFormatJSON is a format for json output
	LogFormatJSON = "json"

	defaultConfigDir = "config"
	defaultDataDir   = "data"

	defaultConfigFileName = "config.toml"
)

var (
	cfg  *Config
	once sync.Once
)

// Config defines the top-level configuration of the vault node.
type Config struct {
	HomeDir string `mapstructure:"home_dir"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogPath   string `mapstructure:"log_path"`

	StateCacheSize int   `mapstructure:"state_cache_size"`
	KeepLastStates int64 `mapstructure:"keep_last_states"`

	APIListenAddr string `mapstructure:"api_listen_addr"`

	// CapacityCeiling is the immutable custody ceiling in settlement
	// units, decimal string
	CapacityCeiling string `mapstructure:"capacity_ceiling"`

	// SettlementAssetID identifies the settlement asset, fixed for the
	// life of the ledger
	SettlementAssetID  uint32 `mapstructure:"settlement_asset_id"`
	SettlementDecimals uint8  `mapstructure:"settlement_decimals"`
}

// GetConfig returns the process-wide configuration, initialized with
// defaults on first use.
func GetConfig() *Config {
	once.Do(func() {
		cfg = DefaultConfig()
	})

	return cfg
}

func DefaultConfig() *Config {
	return &Config{
		HomeDir:            utils.GetVaultHome(),
		LogLevel:           "info",
		LogFormat:          LogFormatPlain,
		LogPath:            "stdout",
		StateCacheSize:     1024,
		KeepLastStates:     120,
		APIListenAddr:      "tcp://0.0.0.0:8841",
		CapacityCeiling:    "1000000000000000000000000",
		SettlementAssetID:  1,
		SettlementDecimals: 18,
	}
}

// ConfigPath returns the path of the TOML config file under the home dir.
func (cfg *Config) ConfigPath() string {
	return filepath.Join(cfg.HomeDir, defaultConfigDir, defaultConfigFileName)
}

// DataDir returns the databases directory, creating it if needed.
func (cfg *Config) DataDir() string {
	dir := filepath.Join(cfg.HomeDir, defaultDataDir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		panic(err)
	}

	return dir
}

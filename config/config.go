package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"relaynet/crypto"
	"relaynet/native/registry"
	"relaynet/storage"
)

// Storage backends.
const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
	BackendBolt    = "bolt"
)

// Config is the operator-facing TOML configuration.
type Config struct {
	DataDir        string  `toml:"DataDir"`
	StorageBackend string  `toml:"StorageBackend"`
	LogEnvironment string  `toml:"LogEnvironment"`
	LogFile        string  `toml:"LogFile"`
	MetricsAddress string  `toml:"MetricsAddress"`
	AdminAddress   string  `toml:"AdminAddress"`
	Genesis        Genesis `toml:"genesis"`
}

// Genesis seeds the economic parameters and the reward treasury on first
// start. Amounts are decimal strings in base units.
type Genesis struct {
	DailyBudget          string    `toml:"DailyBudget"`
	BaseRewardPerMessage string    `toml:"BaseRewardPerMessage"`
	MinimumStakes        [4]string `toml:"MinimumStakes"`
	TreasuryBalance      string    `toml:"TreasuryBalance"`
}

// Default returns a configuration suitable for local development.
func Default() *Config {
	return &Config{
		DataDir:        "./data",
		StorageBackend: BackendLevelDB,
		LogEnvironment: "dev",
		MetricsAddress: "127.0.0.1:9464",
		Genesis: Genesis{
			DailyBudget:          "100000000",
			BaseRewardPerMessage: "1000",
			MinimumStakes:        [4]string{"100", "500", "1000", "5000"},
			TreasuryBalance:      "0",
		},
	}
}

// Load reads and validates a TOML configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseAmount(field, value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("config: %s must be a non-negative integer, got %q", field, value)
	}
	return amount, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendLevelDB, BackendBolt:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.StorageBackend)
	}
	if c.StorageBackend != BackendMemory && strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: data dir required for %s backend", c.StorageBackend)
	}
	if strings.TrimSpace(c.AdminAddress) != "" {
		if _, err := crypto.DecodeAddress(c.AdminAddress); err != nil {
			return fmt.Errorf("config: invalid admin address: %w", err)
		}
	}
	if _, err := parseAmount("DailyBudget", c.Genesis.DailyBudget); err != nil {
		return err
	}
	if _, err := parseAmount("BaseRewardPerMessage", c.Genesis.BaseRewardPerMessage); err != nil {
		return err
	}
	if _, err := c.Genesis.MinimumStakeFloors(); err != nil {
		return err
	}
	if _, err := parseAmount("TreasuryBalance", c.Genesis.TreasuryBalance); err != nil {
		return err
	}
	return nil
}

// Admin returns the configured administrative account id, when set.
func (c *Config) Admin() ([20]byte, bool, error) {
	var out [20]byte
	if strings.TrimSpace(c.AdminAddress) == "" {
		return out, false, nil
	}
	addr, err := crypto.DecodeAddress(c.AdminAddress)
	if err != nil {
		return out, false, err
	}
	return addr.AccountID(), true, nil
}

// DailyBudgetAmount parses the genesis budget.
func (g Genesis) DailyBudgetAmount() (*big.Int, error) {
	return parseAmount("DailyBudget", g.DailyBudget)
}

// BaseRewardAmount parses the genesis per-message base reward.
func (g Genesis) BaseRewardAmount() (*big.Int, error) {
	return parseAmount("BaseRewardPerMessage", g.BaseRewardPerMessage)
}

// TreasuryAmount parses the genesis treasury balance.
func (g Genesis) TreasuryAmount() (*big.Int, error) {
	return parseAmount("TreasuryBalance", g.TreasuryBalance)
}

// MinimumStakeFloors parses and validates the per-tier stake floors.
func (g Genesis) MinimumStakeFloors() (registry.MinimumStakes, error) {
	var out registry.MinimumStakes
	for i, v := range g.MinimumStakes {
		amount, err := parseAmount(fmt.Sprintf("MinimumStakes[%d]", i), v)
		if err != nil {
			return registry.MinimumStakes{}, err
		}
		out[i] = amount
	}
	if err := out.Validate(); err != nil {
		return registry.MinimumStakes{}, err
	}
	return out, nil
}

// OpenDatabase opens the configured storage backend.
func (c *Config) OpenDatabase() (storage.Database, error) {
	switch c.StorageBackend {
	case BackendMemory:
		return storage.NewMemDB(), nil
	case BackendLevelDB:
		return storage.NewLevelDB(c.DataDir)
	case BackendBolt:
		return storage.NewBoltDB(c.DataDir)
	default:
		return nil, fmt.Errorf("config: unknown storage backend %q", c.StorageBackend)
	}
}

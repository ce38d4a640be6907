// Package config loads the engine's risk parameters and admin identity from
// a TOML file, grounded on nhbchain's config.Load (os.Stat + toml.DecodeFile)
// generalized to the DSC engine's freeze-controller parameters instead of a
// node's network/validator settings.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk representation of the engine's freeze-controller
// parameters and admin principal, spec.md §4.6 and §6.
type Config struct {
	// AdminAddress is the bech32-encoded admin principal (spec.md §6,
	// design note "Admin role": an explicit AccountId, not a global).
	AdminAddress string `toml:"AdminAddress"`
	// MaxDropPct bounds the per-asset price drop, in percent, that trips a
	// freeze. Must be in (0, 50]; zero is rejected as BadConfig.
	MaxDropPct uint64 `toml:"MaxDropPct"`
	// CheckIntervalSeconds is the minimum interval between successive
	// check_price_drop calls on the same asset. Must be >= 3600 (1 hour).
	CheckIntervalSeconds uint64 `toml:"CheckIntervalSeconds"`
	// StalePriceSeconds is the oracle staleness timeout T_stale.
	StalePriceSeconds uint64 `toml:"StalePriceSeconds"`
	// Assets lists the collateral assets the engine accepts at startup.
	Assets []AssetConfig `toml:"asset"`
}

// AssetConfig binds one supported collateral asset to its oracle feed.
type AssetConfig struct {
	AssetID  string `toml:"AssetID"`
	OracleID string `toml:"OracleID"`
}

// CheckInterval converts CheckIntervalSeconds to a time.Duration.
func (c Config) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalSeconds) * time.Second
}

// StalePrice converts StalePriceSeconds to a time.Duration.
func (c Config) StalePrice() time.Duration {
	return time.Duration(c.StalePriceSeconds) * time.Second
}

// Load reads and validates the engine configuration from path. Unlike
// nhbchain's config.Load, a missing file is an error here: the engine has
// no sensible zero-value admin principal to default to.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config: %s does not exist", path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces the bounds spec.md §4.6 and §6 place on the freeze
// parameters: MaxDropPct in (0, 50], CheckInterval >= 1h.
func (c *Config) Validate() error {
	if c.AdminAddress == "" {
		return fmt.Errorf("config: AdminAddress must not be empty")
	}
	if c.MaxDropPct == 0 || c.MaxDropPct > 50 {
		return fmt.Errorf("config: MaxDropPct must be in (0, 50], got %d", c.MaxDropPct)
	}
	if c.CheckInterval() < time.Hour {
		return fmt.Errorf("config: CheckIntervalSeconds must be >= 3600, got %d", c.CheckIntervalSeconds)
	}
	if len(c.Assets) == 0 {
		return fmt.Errorf("config: at least one asset must be configured")
	}
	seen := make(map[string]bool, len(c.Assets))
	for _, asset := range c.Assets {
		if asset.AssetID == "" || asset.OracleID == "" {
			return fmt.Errorf("config: asset entries require AssetID and OracleID")
		}
		if seen[asset.AssetID] {
			return fmt.Errorf("config: asset %s listed more than once", asset.AssetID)
		}
		seen[asset.AssetID] = true
	}
	return nil
}

/*
Package game
File: config.go
Description:
    Loads 'economy.yaml' on top of the defaults; anything the file omits keeps its default.
    The defaults are the stock game balance and its six bowel tiers.
*/

package game

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPrefix namespaces every persisted key.
const DefaultPrefix = "poop_"

// DefaultBalance returns the stock tuning constants.
func DefaultBalance() Balance {
	return Balance{
		CritMultiplier:   10,
		StartCritCost:    10,
		CritCostFactor:   2,
		MaxCritChance:    100,
		StartPassiveCost: 50,
		PassiveCostStep:  50,
		HoldUnlockCost:   100,
		TierBaseCost:     1000,
		TierCostGrowth:   10,
	}
}

// DefaultTiers returns the stock tier table.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "Paper Bowels", Color: "#e6e6e6", Icon: "🧻"},
		{Name: "Wood Bowels", Color: "#c18f5d", Icon: "🪵"},
		{Name: "Stone Bowels", Color: "#9ca3af", Icon: "🪨"},
		{Name: "Iron Bowels", Color: "#9aa6b2", Icon: "⛓️"},
		{Name: "Golden Bowels", Color: "#fbbf24", Icon: "🪙"},
		{Name: "Diamond Bowels", Color: "#60a5fa", Icon: "💎"},
	}
}

// DefaultConfig returns a complete configuration that needs no file.
func DefaultConfig() Config {
	return Config{
		Balance: DefaultBalance(),
		Tiers:   DefaultTiers(),
		Server: ServerConfig{
			Addr:         ":8081",
			TickInterval: time.Second,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "data/pile.db",
			Prefix: DefaultPrefix,
		},
	}
}

// LoadConfig reads the YAML file at path and overlays it on DefaultConfig.
// A missing file is not an error; the defaults are returned as-is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	// 1. Read the YAML file
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	// 2. Unmarshal on top of the defaults
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// 3. Empty strings and non-positive intervals mean "use default".
	// Balance fields are taken as written; an explicit 0 is a valid setting.
	cfg.fillDefaults()

	return cfg, cfg.Validate()
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.TickInterval <= 0 {
		c.Server.TickInterval = def.Server.TickInterval
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = def.Storage.Driver
	}
	if c.Storage.Path == "" {
		c.Storage.Path = def.Storage.Path
	}
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = def.Storage.Prefix
	}
}

// Validate rejects configurations that would break the economy invariants.
func (c Config) Validate() error {
	if len(c.Tiers) < 2 {
		return fmt.Errorf("tier table needs at least 2 entries, got %d", len(c.Tiers))
	}
	b := c.Balance
	if b.StartCritCost < 1 || b.StartPassiveCost < 1 {
		return errors.New("starting costs must be at least 1")
	}
	if b.CritCostFactor < 1 || b.TierCostGrowth < 1 || b.PassiveCostStep < 0 {
		return errors.New("cost growth must be non-decreasing")
	}
	if b.MaxCritChance < 0 || b.MaxCritChance > 100 {
		return fmt.Errorf("max crit chance %d outside 0..100", b.MaxCritChance)
	}
	if b.CritMultiplier < 1 || b.HoldUnlockCost < 0 || b.TierBaseCost < 1 {
		return errors.New("multipliers and costs must be positive")
	}
	switch c.Storage.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

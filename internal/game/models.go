/*
Package game
File: models.go
Description:
    Defines the data structures used by the pile economy.
    This file serves as the "schema" for the application, mapping directly to
    the YAML configuration file and JSON API responses.

    No logic is performed here; this file is strictly for type definitions.
*/

package game

import "time"

// Balance stores the tuning constants of the economy, loaded from 'economy.yaml'.
// Every cost curve and multiplier lives here so it can be rebalanced without a rebuild.
type Balance struct {
	CritMultiplier   int `yaml:"crit_multiplier" json:"crit_multiplier"`       // Gain multiplier on a critical act
	StartCritCost    int `yaml:"start_crit_cost" json:"start_crit_cost"`       // Cost of the first +1% crit
	CritCostFactor   int `yaml:"crit_cost_factor" json:"crit_cost_factor"`     // Crit cost is multiplied by this per purchase
	MaxCritChance    int `yaml:"max_crit_chance" json:"max_crit_chance"`       // Crit chance cap in percent
	StartPassiveCost int `yaml:"start_passive_cost" json:"start_passive_cost"` // Cost of the first passive unit
	PassiveCostStep  int `yaml:"passive_cost_step" json:"passive_cost_step"`   // Added to passive cost per purchase
	HoldUnlockCost   int `yaml:"hold_unlock_cost" json:"hold_unlock_cost"`     // One-off price of hold mode
	TierBaseCost     int `yaml:"tier_base_cost" json:"tier_base_cost"`         // Cost of leaving tier 0
	TierCostGrowth   int `yaml:"tier_cost_growth" json:"tier_cost_growth"`     // Tier cost is TierBaseCost * growth^tier
}

// Tier is one row of the static tier table. Display fields are consumed by the UI only.
type Tier struct {
	Name  string `yaml:"name" json:"name"`   // Display name (e.g., "Paper Bowels")
	Color string `yaml:"color" json:"color"` // CSS color used behind the tier badge
	Icon  string `yaml:"icon" json:"icon"`   // Emoji shown next to the name
}

// ServerConfig holds the network and timer settings of the host process.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	TickInterval time.Duration `yaml:"tick_interval"` // Passive generation period
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "memory"
	Path   string `yaml:"path"`   // SQLite database file
	Prefix string `yaml:"prefix"` // Namespace for every persisted key
}

// Config is the root configuration struct, mapping to the entire 'economy.yaml' file.
type Config struct {
	Balance Balance       `yaml:"balance"`
	Tiers   []Tier        `yaml:"tiers"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

// EconomyState is the full mutable record of one player's economy.
// Each field is persisted under its own key (see codec.go).
type EconomyState struct {
	Pile         int  `json:"pile"`          // Accumulated resource
	CritChance   int  `json:"crit_chance"`   // Percent chance that an act is critical
	CritCost     int  `json:"crit_cost"`     // Price of the next +1% crit
	PassiveUnits int  `json:"passive_units"` // Owned generators, each +1 pile per second
	PassiveCost  int  `json:"passive_cost"`  // Price of the next passive unit
	HoldUnlocked bool `json:"hold_unlocked"` // Whether hold mode has been bought
	HoldSpeed    int  `json:"hold_speed"`    // Acts per second while holding
	Tier         int  `json:"tier"`          // Index into the tier table
}

// Gain is the outcome of a single act, returned for transient "+N" feedback.
type Gain struct {
	Amount int  `json:"amount"`
	Crit   bool `json:"crit"`
}

// Offer describes one purchasable upgrade as the shop currently sees it.
type Offer struct {
	Cost      int  `json:"cost"`
	Available bool `json:"available"` // Affordable and not capped
	Maxed     bool `json:"maxed"`     // Capped regardless of pile
}

// Shop is the affordability quote for every purchase, used to gate UI buttons.
type Shop struct {
	Crit        Offer `json:"crit"`
	PassiveUnit Offer `json:"passive_unit"`
	HoldUnlock  Offer `json:"hold_unlock"`
	HoldSpeed   Offer `json:"hold_speed"`
	TierUpgrade Offer `json:"tier_upgrade"`
}

// EventKind names the operation that changed the state.
type EventKind string

const (
	EventAct      EventKind = "gain"
	EventTick     EventKind = "tick"
	EventPurchase EventKind = "purchase"
	EventReset    EventKind = "reset"
)

// Upgrade identifies which purchase an event or request refers to.
type Upgrade string

const (
	UpgradeCrit        Upgrade = "crit"
	UpgradePassiveUnit Upgrade = "passive"
	UpgradeHoldUnlock  Upgrade = "hold"
	UpgradeHoldSpeed   Upgrade = "hold-speed"
	UpgradeTier        Upgrade = "tier"
)

// Event is delivered to subscribers after every successful mutation.
// Seq increases with every mutation; a client holding a higher Seq can drop the event.
type Event struct {
	Seq     uint64       `json:"seq"`
	Kind    EventKind    `json:"kind"`
	Gain    *Gain        `json:"gain,omitempty"`    // Set for EventAct
	Added   int          `json:"added,omitempty"`   // Pile added by EventTick
	Upgrade Upgrade      `json:"upgrade,omitempty"` // Set for EventPurchase
	State   EconomyState `json:"state"`
}

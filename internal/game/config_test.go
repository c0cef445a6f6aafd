package game_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/pile-clicker/internal/game"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "economy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := game.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, game.DefaultConfig(), cfg)
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
balance:
  crit_cost_factor: 10
  passive_cost_step: 25
tiers:
  - { name: "Bronze", color: "#cd7f32", icon: "b" }
  - { name: "Silver", color: "#c0c0c0", icon: "s" }
server:
  tick_interval: 500ms
storage:
  driver: memory
`)
	cfg, err := game.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Balance.CritCostFactor)
	assert.Equal(t, 25, cfg.Balance.PassiveCostStep)
	assert.Equal(t, 1000, cfg.Balance.TierBaseCost, "omitted fields keep defaults")
	require.Len(t, cfg.Tiers, 2)
	assert.Equal(t, "Silver", cfg.Tiers[1].Name)
	assert.Equal(t, 500*time.Millisecond, cfg.Server.TickInterval)
	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, game.DefaultPrefix, cfg.Storage.Prefix)
}

func TestLoadConfig_ExplicitZero(t *testing.T) {
	path := writeConfig(t, `
balance:
  max_crit_chance: 0
  hold_unlock_cost: 0
  passive_cost_step: 0
`)
	cfg, err := game.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Balance.MaxCritChance)
	assert.Equal(t, 0, cfg.Balance.HoldUnlockCost)
	assert.Equal(t, 0, cfg.Balance.PassiveCostStep)
	assert.Equal(t, 10, cfg.Balance.StartCritCost, "omitted fields keep defaults")

	e := game.NewEngine(cfg, nil, game.WithRoller(neverCrit))
	assert.True(t, e.PurchaseHoldUnlock(), "free unlock")
	assert.True(t, e.Quote().Crit.Maxed)
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := map[string]string{
		"single tier":    "tiers:\n  - { name: \"Only\" }\n",
		"bad driver":     "storage:\n  driver: mongo\n",
		"crit over 100":  "balance:\n  max_crit_chance: 150\n",
		"not yaml":       "balance: [",
		"negative costs": "balance:\n  start_crit_cost: -4\n",
		"zero crit cost": "balance:\n  start_crit_cost: 0\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := game.LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestConfiguredBalanceDrivesEngine(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Balance.CritCostFactor = 10
	e := game.NewEngine(cfg, nil, game.WithRoller(neverCrit))

	for i := 0; i < 10; i++ {
		e.Act()
	}
	require.True(t, e.PurchaseCrit())
	assert.Equal(t, 100, e.Snapshot().CritCost)
}

package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedRoller float64

func (r fixedRoller) Float64() float64 { return float64(r) }

func TestTierUpgradeCost(t *testing.T) {
	b := DefaultBalance()

	assert.Equal(t, 1000, b.TierUpgradeCost(0))
	assert.Equal(t, 10000, b.TierUpgradeCost(1))
	assert.Equal(t, 100000000, b.TierUpgradeCost(5))
	assert.Equal(t, 500, b.HoldSpeedCost(0))
	assert.Equal(t, 5000, b.HoldSpeedCost(1))

	t.Run("saturates instead of overflowing", func(t *testing.T) {
		assert.Equal(t, math.MaxInt, b.TierUpgradeCost(40))
		assert.Equal(t, math.MaxInt/2, b.HoldSpeedCost(40))
	})
}

func TestCostGrowth(t *testing.T) {
	b := DefaultBalance()

	assert.Equal(t, 20, b.NextCritCost(10))
	assert.Equal(t, 100, b.NextPassiveCost(50))
	assert.Equal(t, math.MaxInt, b.NextCritCost(math.MaxInt/2+1))
	assert.Equal(t, math.MaxInt, b.NextPassiveCost(math.MaxInt-10))
}

func TestRollGain(t *testing.T) {
	b := DefaultBalance()

	t.Run("zero chance never crits", func(t *testing.T) {
		g := rollGain(fixedRoller(0), b, 0, 0)
		assert.Equal(t, Gain{Amount: 1}, g)
	})

	t.Run("roll under chance crits", func(t *testing.T) {
		g := rollGain(fixedRoller(0.049), b, 2, 5)
		assert.Equal(t, Gain{Amount: 30, Crit: true}, g)
	})

	t.Run("roll at chance does not crit", func(t *testing.T) {
		g := rollGain(fixedRoller(0.05), b, 2, 5)
		assert.Equal(t, Gain{Amount: 3}, g)
	})
}

func TestPassiveGain(t *testing.T) {
	assert.Equal(t, 3, passiveGain(3, 1.0))
	assert.Equal(t, 7, passiveGain(3, 2.5))
	assert.Equal(t, 0, passiveGain(3, 0))
	assert.Equal(t, 0, passiveGain(3, -1))
	assert.Equal(t, 0, passiveGain(0, 10))
	assert.Equal(t, 0, passiveGain(3, math.NaN()))
}

func TestAddSat(t *testing.T) {
	assert.Equal(t, 5, addSat(2, 3))
	assert.Equal(t, math.MaxInt, addSat(math.MaxInt-1, 5))
}

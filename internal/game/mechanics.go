/*
Package game
File: mechanics.go
Description:
    Contains the cost curves and roll helpers of the economy.
    It serves as the rules engine for prices: every purchase asks these
    functions what it costs, and the shop quote uses the same answers.
*/

package game

import "math"

// Roller is the source of randomness for critical rolls.
// Float64 must return a value in [0,1). *math/rand.Rand satisfies it.
type Roller interface {
	Float64() float64
}

// TierUpgradeCost returns the price of leaving the given tier.
// Formula: TierBaseCost * TierCostGrowth^tier (1000 * 10^tier with defaults).
func (b Balance) TierUpgradeCost(tier int) int {
	cost := b.TierBaseCost
	for i := 0; i < tier; i++ {
		cost = mulSat(cost, b.TierCostGrowth)
	}
	return cost
}

// HoldSpeedCost returns the price of one more act per second while holding.
// It is half the upgrade cost of the current tier.
func (b Balance) HoldSpeedCost(tier int) int {
	return b.TierUpgradeCost(tier) / 2
}

// NextCritCost grows the crit price geometrically.
func (b Balance) NextCritCost(cost int) int {
	return mulSat(cost, b.CritCostFactor)
}

// NextPassiveCost grows the passive unit price additively.
func (b Balance) NextPassiveCost(cost int) int {
	if cost > math.MaxInt-b.PassiveCostStep {
		return math.MaxInt
	}
	return cost + b.PassiveCostStep
}

// BaseGain is the yield of a non-critical act at the given tier.
func BaseGain(tier int) int {
	return tier + 1
}

// rollGain resolves one act. A single sample decides the crit:
// sample < critChance/100 means critical.
func rollGain(r Roller, b Balance, tier, critChance int) Gain {
	base := BaseGain(tier)
	if r.Float64() < float64(critChance)/100 {
		return Gain{Amount: mulSat(base, b.CritMultiplier), Crit: true}
	}
	return Gain{Amount: base}
}

// passiveGain is floor(units * elapsed). Non-positive elapsed yields nothing.
func passiveGain(units int, elapsedSeconds float64) int {
	if units <= 0 || elapsedSeconds <= 0 || math.IsNaN(elapsedSeconds) {
		return 0
	}
	g := math.Floor(float64(units) * elapsedSeconds)
	if g >= math.MaxInt {
		return math.MaxInt
	}
	return int(g)
}

// addSat adds without wrapping past math.MaxInt, keeping the pile non-negative.
func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// mulSat multiplies non-negative values, clamping at math.MaxInt.
func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

/*
Package game
File: codec.go
Description:
    Maps EconomyState to and from the flat key/value form kept by a Store.
    One key per field, string-encoded, all under a common prefix.
    Absent, malformed, or out-of-range values decode to the field default.
*/

package game

import "strconv"

// Store is the persistence port of the engine.
// Implementations live in internal/storage; failures are never fatal to the engine.
type Store interface {
	Load() (map[string]string, error)
	Save(values map[string]string) error
	Clear(keys ...string) error
}

// Key suffixes, one per EconomyState field.
const (
	keyPile         = "count"
	keyCritChance   = "crit"
	keyCritCost     = "crit_cost"
	keyPassiveUnits = "diarrhea_boys"
	keyPassiveCost  = "diarrhea_cost"
	keyHoldUnlocked = "hold"
	keyHoldSpeed    = "hold_speed"
	keyTier         = "bowel_tier"
)

var fieldKeys = []string{
	keyPile, keyCritChance, keyCritCost, keyPassiveUnits,
	keyPassiveCost, keyHoldUnlocked, keyHoldSpeed, keyTier,
}

// Keys returns every persisted key for the given prefix.
func Keys(prefix string) []string {
	out := make([]string, len(fieldKeys))
	for i, k := range fieldKeys {
		out[i] = prefix + k
	}
	return out
}

// DefaultState is the state of a fresh game under the given balance.
func DefaultState(b Balance) EconomyState {
	return EconomyState{
		CritCost:    b.StartCritCost,
		PassiveCost: b.StartPassiveCost,
		HoldSpeed:   1,
	}
}

// EncodeState flattens the state into prefixed string values.
func EncodeState(prefix string, s EconomyState) map[string]string {
	hold := "0"
	if s.HoldUnlocked {
		hold = "1"
	}
	return map[string]string{
		prefix + keyPile:         strconv.Itoa(s.Pile),
		prefix + keyCritChance:   strconv.Itoa(s.CritChance),
		prefix + keyCritCost:     strconv.Itoa(s.CritCost),
		prefix + keyPassiveUnits: strconv.Itoa(s.PassiveUnits),
		prefix + keyPassiveCost:  strconv.Itoa(s.PassiveCost),
		prefix + keyHoldUnlocked: hold,
		prefix + keyHoldSpeed:    strconv.Itoa(s.HoldSpeed),
		prefix + keyTier:         strconv.Itoa(s.Tier),
	}
}

// DecodeState rebuilds a state from stored values, field by field.
// tierCount bounds the tier index; b.MaxCritChance bounds the crit chance.
func DecodeState(prefix string, values map[string]string, b Balance, tierCount int) EconomyState {
	def := DefaultState(b)
	return EconomyState{
		Pile:         intField(values, prefix+keyPile, def.Pile, 0, -1),
		CritChance:   intField(values, prefix+keyCritChance, def.CritChance, 0, b.MaxCritChance),
		CritCost:     intField(values, prefix+keyCritCost, def.CritCost, 1, -1),
		PassiveUnits: intField(values, prefix+keyPassiveUnits, def.PassiveUnits, 0, -1),
		PassiveCost:  intField(values, prefix+keyPassiveCost, def.PassiveCost, 1, -1),
		HoldUnlocked: values[prefix+keyHoldUnlocked] == "1",
		HoldSpeed:    intField(values, prefix+keyHoldSpeed, def.HoldSpeed, 1, -1),
		Tier:         intField(values, prefix+keyTier, def.Tier, 0, tierCount-1),
	}
}

// intField parses one integer value. max < 0 means unbounded.
func intField(values map[string]string, key string, def, min, max int) int {
	raw, ok := values[key]
	if !ok || raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || (max >= 0 && v > max) {
		return def
	}
	return v
}

/*
Package game
File: economy.go
Description:
    The Idle Accumulator Engine. It owns one EconomyState and is the only
    thing allowed to mutate it.
    This includes:
    1. Manual acts (with critical rolls) and passive generation ticks.
    2. Affordability-checked purchases of every upgrade.
    3. Persisting the state after each mutation and notifying subscribers.
*/

package game

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Engine serializes every operation on the economy behind a single lock.
// Acts, ticks, hold repeats, and purchases may arrive from different goroutines.
type Engine struct {
	mu      sync.Mutex
	state   EconomyState
	balance Balance
	tiers   []Tier
	prefix  string

	store  Store
	roller Roller
	log    *zap.Logger

	seq uint64 // last event sequence number, guarded by mu

	subMu     sync.RWMutex
	listeners []func(Event)
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithRoller replaces the random source used for critical rolls.
func WithRoller(r Roller) Option {
	return func(e *Engine) { e.roller = r }
}

// WithLogger attaches a logger. Without it the engine logs nothing.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithPrefix changes the namespace of persisted keys.
func WithPrefix(p string) Option {
	return func(e *Engine) { e.prefix = p }
}

// NewEngine builds an engine and restores its state from the store.
// Load failures fall back to defaults; the engine always starts.
func NewEngine(cfg Config, store Store, opts ...Option) *Engine {
	e := &Engine{
		balance: cfg.Balance,
		tiers:   append([]Tier(nil), cfg.Tiers...),
		prefix:  cfg.Storage.Prefix,
		store:   store,
		roller:  rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     zap.NewNop(),
	}
	if e.prefix == "" {
		e.prefix = DefaultPrefix
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = e.load()
	return e
}

// load reads the persisted state. Any failure means "use defaults".
func (e *Engine) load() EconomyState {
	if e.store == nil {
		return DefaultState(e.balance)
	}
	values, err := e.store.Load()
	if err != nil {
		e.log.Debug("load failed, using defaults", zap.Error(err))
		values = nil
	}
	return DecodeState(e.prefix, values, e.balance, len(e.tiers))
}

// persist writes the current state. Caller must hold e.mu.
// Write failures skip persistence for this cycle.
func (e *Engine) persist() {
	if e.store == nil {
		return
	}
	if err := e.store.Save(EncodeState(e.prefix, e.state)); err != nil {
		e.log.Debug("save failed, skipping", zap.Error(err))
	}
}

// Subscribe registers fn to receive every Event. Listeners are called
// after the state lock is released, in registration order.
func (e *Engine) Subscribe(fn func(Event)) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) emit(ev Event) {
	e.subMu.RLock()
	listeners := e.listeners
	e.subMu.RUnlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

// nextSeq numbers the event of a mutation. Caller must hold e.mu.
func (e *Engine) nextSeq() uint64 {
	e.seq++
	return e.seq
}

// Act performs one manual action and returns its gain.
func (e *Engine) Act() Gain {
	g, _ := e.act(false)
	return g
}

// HoldAct performs one held action. It does nothing and reports false
// once hold mode is locked, e.g. after a reset.
func (e *Engine) HoldAct() (Gain, bool) {
	return e.act(true)
}

func (e *Engine) act(held bool) (Gain, bool) {
	e.mu.Lock()
	if held && !e.state.HoldUnlocked {
		e.mu.Unlock()
		return Gain{}, false
	}
	g := rollGain(e.roller, e.balance, e.state.Tier, e.state.CritChance)
	e.state.Pile = addSat(e.state.Pile, g.Amount)
	e.persist()
	ev := Event{Seq: e.nextSeq(), Kind: EventAct, Gain: &g, State: e.state}
	e.mu.Unlock()

	e.emit(ev)
	return g, true
}

// Tick adds passive generation for the elapsed wall-clock seconds.
// It returns the amount added; elapsed <= 0 is a no-op.
func (e *Engine) Tick(elapsedSeconds float64) int {
	e.mu.Lock()
	added := passiveGain(e.state.PassiveUnits, elapsedSeconds)
	if added == 0 {
		e.mu.Unlock()
		return 0
	}
	e.state.Pile = addSat(e.state.Pile, added)
	e.persist()
	ev := Event{Seq: e.nextSeq(), Kind: EventTick, Added: added, State: e.state}
	e.mu.Unlock()

	e.emit(ev)
	return added
}

// purchase runs an affordability-checked mutation under the lock.
// apply only runs when the quoted offer is available.
func (e *Engine) purchase(kind Upgrade, quote func(s EconomyState) Offer, apply func(s *EconomyState)) bool {
	e.mu.Lock()
	o := quote(e.state)
	if !o.Available {
		e.mu.Unlock()
		return false
	}
	e.state.Pile -= o.Cost
	apply(&e.state)
	e.persist()
	ev := Event{Seq: e.nextSeq(), Kind: EventPurchase, Upgrade: kind, State: e.state}
	e.mu.Unlock()

	e.log.Debug("purchase", zap.String("upgrade", string(kind)), zap.Int("cost", o.Cost))
	e.emit(ev)
	return true
}

// PurchaseCrit buys +1% crit chance and doubles the next crit price.
func (e *Engine) PurchaseCrit() bool {
	return e.purchase(UpgradeCrit, e.critOffer, func(s *EconomyState) {
		s.CritChance++
		s.CritCost = e.balance.NextCritCost(s.CritCost)
	})
}

// PurchasePassiveUnit buys one generator; the next one costs PassiveCostStep more.
func (e *Engine) PurchasePassiveUnit() bool {
	return e.purchase(UpgradePassiveUnit, e.passiveOffer, func(s *EconomyState) {
		s.PassiveUnits++
		s.PassiveCost = e.balance.NextPassiveCost(s.PassiveCost)
	})
}

// PurchaseHoldUnlock buys hold mode once.
func (e *Engine) PurchaseHoldUnlock() bool {
	return e.purchase(UpgradeHoldUnlock, e.holdUnlockOffer, func(s *EconomyState) {
		s.HoldUnlocked = true
	})
}

// PurchaseHoldSpeed adds one act per second to hold mode, capped at tier+1.
func (e *Engine) PurchaseHoldSpeed() bool {
	return e.purchase(UpgradeHoldSpeed, e.holdSpeedOffer, func(s *EconomyState) {
		s.HoldSpeed++
	})
}

// PurchaseTierUpgrade moves to the next tier of the table.
func (e *Engine) PurchaseTierUpgrade() bool {
	return e.purchase(UpgradeTier, e.tierOffer, func(s *EconomyState) {
		s.Tier++
	})
}

// Buy dispatches a purchase by name. Unknown upgrades fail.
func (e *Engine) Buy(u Upgrade) bool {
	switch u {
	case UpgradeCrit:
		return e.PurchaseCrit()
	case UpgradePassiveUnit:
		return e.PurchasePassiveUnit()
	case UpgradeHoldUnlock:
		return e.PurchaseHoldUnlock()
	case UpgradeHoldSpeed:
		return e.PurchaseHoldSpeed()
	case UpgradeTier:
		return e.PurchaseTierUpgrade()
	}
	return false
}

func (e *Engine) critOffer(s EconomyState) Offer {
	maxed := s.CritChance >= e.balance.MaxCritChance
	return offer(s.Pile, s.CritCost, maxed)
}

func (e *Engine) passiveOffer(s EconomyState) Offer {
	return offer(s.Pile, s.PassiveCost, false)
}

func (e *Engine) holdUnlockOffer(s EconomyState) Offer {
	return offer(s.Pile, e.balance.HoldUnlockCost, s.HoldUnlocked)
}

func (e *Engine) holdSpeedOffer(s EconomyState) Offer {
	o := offer(s.Pile, e.balance.HoldSpeedCost(s.Tier), s.HoldSpeed >= BaseGain(s.Tier))
	if !s.HoldUnlocked {
		o.Available = false
	}
	return o
}

func (e *Engine) tierOffer(s EconomyState) Offer {
	maxed := s.Tier+1 >= len(e.tiers)
	return offer(s.Pile, e.balance.TierUpgradeCost(s.Tier), maxed)
}

func offer(pile, cost int, maxed bool) Offer {
	return Offer{Cost: cost, Maxed: maxed, Available: !maxed && pile >= cost}
}

// Quote reports the price and availability of every purchase.
func (e *Engine) Quote() Shop {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quote(e.state)
}

// Status returns the state and the shop priced against that same state.
func (e *Engine) Status() (EconomyState, Shop) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.quote(e.state)
}

func (e *Engine) quote(s EconomyState) Shop {
	return Shop{
		Crit:        e.critOffer(s),
		PassiveUnit: e.passiveOffer(s),
		HoldUnlock:  e.holdUnlockOffer(s),
		HoldSpeed:   e.holdSpeedOffer(s),
		TierUpgrade: e.tierOffer(s),
	}
}

// Reset restores the default state and removes every persisted key.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.state = DefaultState(e.balance)
	if e.store != nil {
		if err := e.store.Clear(Keys(e.prefix)...); err != nil {
			e.log.Debug("clear failed", zap.Error(err))
		}
	}
	ev := Event{Seq: e.nextSeq(), Kind: EventReset, State: e.state}
	e.mu.Unlock()

	e.log.Info("economy reset")
	e.emit(ev)
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() EconomyState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Tiers returns a copy of the tier table.
func (e *Engine) Tiers() []Tier {
	return append([]Tier(nil), e.tiers...)
}

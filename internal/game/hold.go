/*
Package game
File: hold.go
Description:
    Hold mode: while an input is held, repeat Engine.Act at HoldSpeed acts
    per second. A hold-speed purchase mid-hold retunes the repeat period
    without interrupting the hold; a reset ends it.
*/

package game

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Holder repeats acts on behalf of a held input.
type Holder struct {
	engine *Engine
	log    *zap.Logger

	mu     sync.Mutex
	stop   chan struct{} // non-nil while holding
	done   chan struct{}
	retune chan struct{}
}

// NewHolder creates a hold repeater and subscribes it to engine events.
func NewHolder(e *Engine, log *zap.Logger) *Holder {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Holder{
		engine: e,
		log:    log,
		retune: make(chan struct{}, 1),
	}
	e.Subscribe(h.onEvent)
	return h
}

func (h *Holder) onEvent(ev Event) {
	switch {
	case ev.Kind == EventPurchase && ev.Upgrade == UpgradeHoldSpeed:
		select {
		case h.retune <- struct{}{}:
		default:
		}
	case ev.Kind == EventReset:
		h.Stop()
	}
}

// Start begins repeating. It fails while hold mode is locked;
// starting an active hold is a no-op that reports success.
func (h *Holder) Start() bool {
	if !h.engine.Snapshot().HoldUnlocked {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stop != nil {
		return true
	}
	h.stop = make(chan struct{})
	h.done = make(chan struct{})
	go h.loop(h.stop, h.done)
	h.log.Debug("hold started")
	return true
}

// Stop ends an active hold and waits for the repeater to exit.
func (h *Holder) Stop() {
	h.mu.Lock()
	stop, done := h.stop, h.done
	h.stop, h.done = nil, nil
	h.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	h.log.Debug("hold stopped")
}

// Holding reports whether a hold is active.
func (h *Holder) Holding() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stop != nil
}

// Close stops any active hold. Used on teardown.
func (h *Holder) Close() {
	h.Stop()
}

func (h *Holder) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	speed := h.engine.Snapshot().HoldSpeed
	ticker := time.NewTicker(holdPeriod(speed))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-h.retune:
			if s := h.engine.Snapshot().HoldSpeed; s != speed {
				speed = s
				ticker.Reset(holdPeriod(speed))
				h.log.Debug("hold retuned", zap.Int("speed", speed))
			}
		case <-ticker.C:
			if _, ok := h.engine.HoldAct(); !ok {
				h.release(stop)
				return
			}
		}
	}
}

// release forgets a hold whose repeater ended on its own.
func (h *Holder) release(stop <-chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stop == stop {
		h.stop, h.done = nil, nil
		h.log.Debug("hold ended, hold mode locked")
	}
}

func holdPeriod(speed int) time.Duration {
	if speed < 1 {
		speed = 1
	}
	return time.Second / time.Duration(speed)
}

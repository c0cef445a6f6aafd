/*
Package game
File: generator.go
Description:
    The passive generation heartbeat. The engine never owns a timer;
    this host drives Engine.Tick at a fixed interval until stopped.
*/

package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Generator calls Engine.Tick once per interval.
type Generator struct {
	engine   *Engine
	interval time.Duration
	log      *zap.Logger

	stopOnce sync.Once
	stopChan chan struct{}
}

// NewGenerator creates a passive generation host. A non-positive interval means one second.
func NewGenerator(e *Engine, interval time.Duration, log *zap.Logger) *Generator {
	if interval <= 0 {
		interval = time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		engine:   e,
		interval: interval,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// Run blocks, ticking the engine until ctx is done or Stop is called.
func (g *Generator) Run(ctx context.Context) {
	g.log.Info("passive generator started", zap.Duration("interval", g.interval))

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	// Each tick credits the nominal interval, matching a fixed 1-second
	// schedule regardless of scheduler jitter.
	elapsed := g.interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			g.log.Info("passive generator stopped by context")
			return
		case <-g.stopChan:
			g.log.Info("passive generator stopped")
			return
		case <-ticker.C:
			if added := g.engine.Tick(elapsed); added > 0 {
				g.log.Debug("passive gain", zap.Int("added", added))
			}
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (g *Generator) Stop() {
	g.stopOnce.Do(func() { close(g.stopChan) })
}

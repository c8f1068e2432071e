package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-roads/service/i"
)

// TickerConfig configures a Ticker.
type TickerConfig struct {
	World  i.Advancer
	Period time.Duration // Zero or negative disables the autonomous loop
	Logger i.Logger
}

// Ticker drives the simulation clock, either on its own at a fixed period or
// by explicit Step calls.
type Ticker struct {
	world     i.Advancer
	period    time.Duration
	logger    i.Logger
	listeners []func()
	sync.Mutex
}

// NewTicker creates a Ticker from c.
func NewTicker(c *TickerConfig) *Ticker {
	return &Ticker{
		world:  c.World,
		period: c.Period,
		logger: c.Logger,
	}
}

// Autonomous reports whether the ticker advances the world on its own.
func (t *Ticker) Autonomous() bool {
	return t.period > 0
}

// OnTick registers fn to be called after every step.
func (t *Ticker) OnTick(fn func()) {
	t.Lock()
	defer t.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Step advances the world by delta and notifies the tick listeners.
func (t *Ticker) Step(delta time.Duration) {
	t.world.Advance(delta)

	t.Lock()
	listeners := append([]func(){}, t.listeners...)
	t.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Run advances the world every period by the real time elapsed since the
// previous step, until ctx is done. It returns immediately when the ticker
// is not autonomous.
func (t *Ticker) Run(ctx context.Context) {
	if !t.Autonomous() {
		return
	}

	t.logger.Info(fmt.Sprintf("ticking every %s", t.period))
	tk := time.NewTicker(t.period)
	defer tk.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			t.logger.Info("ticker stopped")
			return
		case now := <-tk.C:
			t.Step(now.Sub(last))
			last = now
		}
	}
}

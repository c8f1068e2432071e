/*
Package lootgen decides how many loot items should appear on a map.

The probability that loot appears grows with the time the map has gone without
new loot. At most enough items are produced to give every looter one item.
*/
package lootgen

import (
	"errors"
	"math"
	"sync"
	"time"
)

var ErrInvalidModel = errors.New("invalid loot generator model")

// RandomSource returns a number in [0, 1].
type RandomSource func() float64

// Option configures a Generator.
type Option func(*Generator)

// WithRandomSource replaces the default source, which always returns 1.
func WithRandomSource(r RandomSource) Option {
	return func(g *Generator) {
		g.random = r
	}
}

// Generator is a stateful loot count generator. It is safe for concurrent use.
type Generator struct {
	interval    time.Duration
	probability float64
	random      RandomSource

	mu              sync.Mutex
	timeWithoutLoot time.Duration
}

// New creates a generator that, over one interval without loot, produces an
// item for a missing looter with the given probability.
func New(interval time.Duration, probability float64, opts ...Option) (*Generator, error) {
	if interval <= 0 || probability < 0 || probability > 1 || math.IsNaN(probability) {
		return nil, ErrInvalidModel
	}

	g := &Generator{
		interval:    interval,
		probability: probability,
		random:      func() float64 { return 1 },
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Generate returns the number of items to add given the elapsed time since the
// previous call, the current loot count and the number of looters.
func (g *Generator) Generate(elapsed time.Duration, lootCount, looterCount uint) uint {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.timeWithoutLoot += elapsed

	var shortage uint
	if looterCount > lootCount {
		shortage = looterCount - lootCount
	}

	ratio := float64(g.timeWithoutLoot) / float64(g.interval)
	p := (1 - math.Pow(1-g.probability, ratio)) * g.random()
	p = math.Min(math.Max(p, 0), 1)

	generated := uint(math.Round(float64(shortage) * p))
	if generated > 0 {
		g.timeWithoutLoot = 0
	}

	return generated
}

package feed

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"antarctic-dashboard/internal/models"
)

// Generator produces the next simulated reading.
type Generator interface {
	Next() models.Reading
}

// UniformGenerator samples temperatures uniformly from [Min, Max], rounded to
// one decimal place.
type UniformGenerator struct {
	min float64
	max float64
	rng *rand.Rand
	now func() time.Time
}

type GeneratorOption func(*UniformGenerator)

// WithSeed makes the sequence of values reproducible.
func WithSeed(seed uint64) GeneratorOption {
	return func(g *UniformGenerator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithClock(now func() time.Time) GeneratorOption {
	return func(g *UniformGenerator) {
		g.now = now
	}
}

func NewUniformGenerator(min, max float64, opts ...GeneratorOption) *UniformGenerator {
	if min > max {
		min, max = max, min
	}
	g := &UniformGenerator{
		min: min,
		max: max,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *UniformGenerator) Next() models.Reading {
	raw := g.min + g.rng.Float64()*(g.max-g.min)
	value := decimal.NewFromFloat(raw).Round(1).InexactFloat64()

	// Rounding can step outside bounds that are not on a 0.1 grid.
	if value < g.min {
		value = g.min
	}
	if value > g.max {
		value = g.max
	}

	return models.Reading{
		Value:     value,
		Timestamp: g.now().Format(models.TimestampLayout),
	}
}

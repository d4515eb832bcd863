package engine

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

// DefaultStartCity holds the first research station and every pawn at setup.
const DefaultStartCity = "atlanta"

type options struct {
	rng       *rand.Rand
	log       *zap.Logger
	startCity string
}

// Option configures NewGame.
type Option func(*options)

// WithRand sets the source of every shuffle and sample.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSeed is WithRand with a PCG source seeded from seed.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithStartCity(name string) Option {
	return func(o *options) { o.startCity = name }
}

func buildOptions(opts []Option) options {
	o := options{startCity: DefaultStartCity}
	for _, fn := range opts {
		fn(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

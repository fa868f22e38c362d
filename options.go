package bloomy

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"bloomy/internal/common"
	"bloomy/internal/counter"
	"bloomy/internal/hash"
)

type Options struct {
	SeedA        uint64
	SeedB        uint64
	Hasher       Hasher
	CounterWidth uint8
}

var DefaultOptions = Options{
	SeedA:        0x9e3779b97f4a7c15,
	SeedB:        0xc2b2ae3d27d4eb4f,
	Hasher:       hash.XXHash{},
	CounterWidth: counter.DefaultWidth,
}

type Option func(*Options)

// WithSeeds sets the two seeds of the double-hashing engine. Filters meant
// to be combined should share seeds.
func WithSeeds(seedA, seedB uint64) Option {
	return func(o *Options) {
		o.SeedA = seedA
		o.SeedB = seedB
	}
}

func WithHasher(h Hasher) Option {
	return func(o *Options) {
		o.Hasher = h
	}
}

// WithCounterWidth sets the bits per counter of counting filters.
func WithCounterWidth(w uint8) Option {
	return func(o *Options) {
		o.CounterWidth = w
	}
}

// Validate reports every invalid field at once.
func (o Options) Validate() error {
	var err error
	if o.Hasher == nil {
		err = multierr.Append(err, errors.Wrap(common.ErrInvalidParameter, "hasher is required"))
	}
	if o.CounterWidth < counter.MinWidth || o.CounterWidth > counter.MaxWidth {
		err = multierr.Append(err, errors.Wrapf(common.ErrInvalidParameter,
			"counter width %d outside [%d, %d]", o.CounterWidth, counter.MinWidth, counter.MaxWidth))
	}
	return err
}

func buildOptions(optFns []Option) (Options, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

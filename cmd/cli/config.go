package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bloomy"
	"bloomy/internal/common"
	"bloomy/internal/counter"
	"bloomy/internal/hash"
)

type config struct {
	N        uint64
	P        float64
	M        uint64
	K        uint32
	Bytes    uint64
	SeedA    uint64
	SeedB    uint64
	Hasher   string
	Counting bool
	Width    uint8
	History  string
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "bloomcli",
		Short: "Interactive shell over a single bloom filter",
		Long: "bloomcli builds one bloom filter (or counting filter) from flags or\n" +
			"BLOOMY_* environment variables and opens a shell to add, check and\n" +
			"remove items and to inspect the filter.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			s, err := newSession(cfg)
			if err != nil {
				return err
			}
			return s.run()
		},
	}

	flags := cmd.Flags()
	flags.Uint64("n", 1000, "expected number of items")
	flags.Float64("p", 0.01, "target false positive rate")
	flags.Uint64("m", 0, "explicit number of bits or counters (requires --k, overrides --n/--p)")
	flags.Uint32("k", 0, "explicit number of hash positions per item")
	flags.Uint64("bytes", 0, "size the filter to this many bytes of storage at --p (overrides --n)")
	flags.Uint64("seed-a", bloomy.DefaultOptions.SeedA, "first hashing seed")
	flags.Uint64("seed-b", bloomy.DefaultOptions.SeedB, "second hashing seed")
	flags.String("hasher", "xxhash", "hash function: xxhash, murmur3 or siphash")
	flags.Bool("counting", false, "use a counting filter that supports remove")
	flags.Uint8("width", counter.DefaultWidth, "bits per counter for --counting")
	flags.String("history", "", "history file (default ~/.bloomy_history)")

	if err := bindFlags(v, flags); err != nil {
		panic(err)
	}
	return cmd
}

// bindFlags makes every flag readable through v, with BLOOMY_* environment
// variables as fallback.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvPrefix("BLOOMY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return errors.Wrap(v.BindPFlags(flags), "bind flags")
}

func loadConfig(v *viper.Viper) (config, error) {
	cfg := config{
		N:        v.GetUint64("n"),
		P:        v.GetFloat64("p"),
		M:        v.GetUint64("m"),
		K:        v.GetUint32("k"),
		Bytes:    v.GetUint64("bytes"),
		SeedA:    v.GetUint64("seed-a"),
		SeedB:    v.GetUint64("seed-b"),
		Hasher:   v.GetString("hasher"),
		Counting: v.GetBool("counting"),
		History:  v.GetString("history"),
	}
	if cfg.History == "" {
		// No home directory just means no persisted history
		cfg.History, _ = defaultHistoryPath()
	}

	width := v.GetUint("width")
	if width > uint(counter.MaxWidth) {
		return cfg, errors.Wrapf(common.ErrInvalidParameter, "width %d exceeds %d", width, counter.MaxWidth)
	}
	cfg.Width = uint8(width)

	if (cfg.M == 0) != (cfg.K == 0) {
		return cfg, errors.Wrap(common.ErrInvalidParameter, "--m and --k must be given together")
	}
	if cfg.M != 0 && cfg.Bytes != 0 {
		return cfg, errors.Wrap(common.ErrInvalidParameter, "--bytes cannot be combined with --m/--k")
	}
	return cfg, nil
}

func (c config) options() ([]bloomy.Option, error) {
	h, err := hash.ByName(c.Hasher)
	if err != nil {
		return nil, err
	}
	return []bloomy.Option{
		bloomy.WithSeeds(c.SeedA, c.SeedB),
		bloomy.WithHasher(h),
		bloomy.WithCounterWidth(c.Width),
	}, nil
}

// newBloom builds an empty plain filter from the configuration.
func (c config) newBloom() (*bloomy.Filter, error) {
	opts, err := c.options()
	if err != nil {
		return nil, err
	}
	switch {
	case c.M != 0:
		return bloomy.NewWithParams(c.M, c.K, opts...)
	case c.Bytes != 0:
		return bloomy.NewWithSize(c.Bytes, c.P, opts...)
	}
	return bloomy.New(c.N, c.P, opts...)
}

// newCounting builds an empty counting filter from the configuration.
func (c config) newCounting() (*bloomy.CountingFilter, error) {
	opts, err := c.options()
	if err != nil {
		return nil, err
	}
	switch {
	case c.M != 0:
		return bloomy.NewCountingWithParams(c.M, c.K, opts...)
	case c.Bytes != 0:
		return bloomy.NewCountingWithSize(c.Bytes, c.P, opts...)
	}
	return bloomy.NewCounting(c.N, c.P, opts...)
}

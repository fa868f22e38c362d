package counter

import (
	"fmt"

	"github.com/pkg/errors"
	boom "github.com/tylertreat/BoomFilters"

	"bloomy/internal/common"
)

const (
	// MinWidth and MaxWidth bound the bits per counter.
	MinWidth uint8 = 1
	MaxWidth uint8 = 8

	// DefaultWidth gives 15 as the saturation value.
	DefaultWidth uint8 = 4
)

// shardSlots is the number of counters per boom.Buckets shard. Buckets.Set
// computes bit offsets in uint32, so a shard must stay below 2^32 bits at
// MaxWidth.
var shardSlots uint64 = 1 << 29

// vectorImpl packs counters into buckets of width bits each, split across
// shards of at most shardSlots counters.
type vectorImpl struct {
	shards  []*boom.Buckets
	length  uint64
	width   uint8
	max     uint32
	nonZero uint64 // maintained on every transition to or from zero
}

var _ Vector = (*vectorImpl)(nil)

// NewVector creates length zeroed counters of width bits each.
func NewVector(length uint64, width uint8) (Vector, error) {
	if width < MinWidth || width > MaxWidth {
		return nil, errors.Wrapf(common.ErrInvalidParameter,
			"counter width %d outside [%d, %d]", width, MinWidth, MaxWidth)
	}
	shards := make([]*boom.Buckets, 0, (length+shardSlots-1)/shardSlots)
	for left := length; left > 0; left -= min(left, shardSlots) {
		shards = append(shards, boom.NewBuckets(uint(min(left, shardSlots)), width))
	}
	return &vectorImpl{
		shards: shards,
		length: length,
		width:  width,
		max:    uint32(1)<<width - 1,
	}, nil
}

func (v *vectorImpl) check(i uint64) {
	if i >= v.length {
		panic(fmt.Sprintf("counter: index %d out of range [0, %d)", i, v.length))
	}
}

// locate returns the shard holding counter i and its offset there.
func (v *vectorImpl) locate(i uint64) (*boom.Buckets, uint) {
	v.check(i)
	return v.shards[i/shardSlots], uint(i % shardSlots)
}

func (v *vectorImpl) Get(i uint64) uint32 {
	b, off := v.locate(i)
	return b.Get(off)
}

func (v *vectorImpl) Increment(i uint64) {
	b, off := v.locate(i)
	cur := b.Get(off)
	if cur >= v.max {
		return
	}
	if cur == 0 {
		v.nonZero++
	}
	b.Set(off, uint8(cur+1))
}

func (v *vectorImpl) Decrement(i uint64) {
	b, off := v.locate(i)
	cur := b.Get(off)
	if cur == 0 {
		return
	}
	if cur == 1 {
		v.nonZero--
	}
	b.Set(off, uint8(cur-1))
}

func (v *vectorImpl) NonZero() uint64 {
	return v.nonZero
}

func (v *vectorImpl) Len() uint64 {
	return v.length
}

func (v *vectorImpl) Width() uint8 {
	return v.width
}

func (v *vectorImpl) Max() uint32 {
	return v.max
}

func (v *vectorImpl) Clear() {
	for _, b := range v.shards {
		b.Reset()
	}
	v.nonZero = 0
}

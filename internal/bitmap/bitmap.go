package bitmap

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// bitmapImpl is a concrete implementation of the Bitmap interface.
type bitmapImpl struct {
	bits    *bitset.BitSet
	numBits uint64 // Total number of bits in the bitmap
}

var _ Bitmap = (*bitmapImpl)(nil)

// NewBitmap creates a new bitmap with the specified number of bits.
// All bits are initialized to 0.
func NewBitmap(numBits uint64) Bitmap {
	return &bitmapImpl{
		bits:    bitset.New(uint(numBits)),
		numBits: numBits,
	}
}

// NewBitmapFromWords rebuilds a bitmap from words previously returned by
// Words. Missing trailing words are treated as zero and bits past numBits
// are dropped.
func NewBitmapFromWords(numBits uint64, words []uint64) Bitmap {
	need := (numBits + 63) / 64
	data := make([]uint64, need)
	copy(data, words)
	if tail := numBits % 64; tail != 0 && need > 0 {
		data[need-1] &= (uint64(1) << tail) - 1
	}
	return &bitmapImpl{
		bits:    bitset.FromWithLength(uint(numBits), data),
		numBits: numBits,
	}
}

func (b *bitmapImpl) check(i uint64) {
	if i >= b.numBits {
		panic(fmt.Sprintf("bitmap: index %d out of range [0, %d)", i, b.numBits))
	}
}

// must narrows other to the concrete type and checks lengths match.
func (b *bitmapImpl) must(other Bitmap) *bitmapImpl {
	o, ok := other.(*bitmapImpl)
	if !ok {
		panic(fmt.Sprintf("bitmap: unsupported operand %T", other))
	}
	if o.numBits != b.numBits {
		panic(fmt.Sprintf("bitmap: length mismatch %d != %d", b.numBits, o.numBits))
	}
	return o
}

// Add sets the bit at position i to 1 (adds i to the set).
func (b *bitmapImpl) Add(i uint64) {
	b.check(i)
	b.bits.Set(uint(i))
}

// Contains returns true if bit at position i is set (i is in the set).
func (b *bitmapImpl) Contains(i uint64) bool {
	b.check(i)
	return b.bits.Test(uint(i))
}

func (b *bitmapImpl) Count() uint64 {
	return uint64(b.bits.Count())
}

func (b *bitmapImpl) Len() uint64 {
	return b.numBits
}

func (b *bitmapImpl) Clear() {
	b.bits.ClearAll()
}

func (b *bitmapImpl) Union(other Bitmap) Bitmap {
	o := b.must(other)
	return &bitmapImpl{
		bits:    b.bits.Union(o.bits),
		numBits: b.numBits,
	}
}

func (b *bitmapImpl) Intersect(other Bitmap) Bitmap {
	o := b.must(other)
	return &bitmapImpl{
		bits:    b.bits.Intersection(o.bits),
		numBits: b.numBits,
	}
}

func (b *bitmapImpl) UnionCount(other Bitmap) uint64 {
	return uint64(b.bits.UnionCardinality(b.must(other).bits))
}

func (b *bitmapImpl) IntersectCount(other Bitmap) uint64 {
	return uint64(b.bits.IntersectionCardinality(b.must(other).bits))
}

func (b *bitmapImpl) Clone() Bitmap {
	return &bitmapImpl{
		bits:    b.bits.Clone(),
		numBits: b.numBits,
	}
}

func (b *bitmapImpl) Equal(other Bitmap) bool {
	o, ok := other.(*bitmapImpl)
	if !ok || o.numBits != b.numBits {
		return false
	}
	return b.bits.Equal(o.bits)
}

func (b *bitmapImpl) Words() []uint64 {
	words := b.bits.Bytes()
	out := make([]uint64, (b.numBits+63)/64)
	copy(out, words)
	return out
}

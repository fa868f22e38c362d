package bitmap

// Bitmap is a fixed-length set of bit positions backed by packed words.
// The length is fixed at construction; every index must be < Len().
type Bitmap interface {
	// Add sets the bit at position i to 1 (adds i to the set).
	Add(i uint64)

	// Contains returns true if bit at position i is set (i is in the set).
	Contains(i uint64) bool

	// Count returns the number of set bits.
	Count() uint64

	// Len returns the number of addressable bits.
	Len() uint64

	// Clear resets every bit to 0.
	Clear()

	// Union returns a new bitmap holding the bitwise OR of both operands.
	Union(other Bitmap) Bitmap

	// Intersect returns a new bitmap holding the bitwise AND of both operands.
	Intersect(other Bitmap) Bitmap

	// UnionCount returns Count() of the bitwise OR without allocating it.
	UnionCount(other Bitmap) uint64

	// IntersectCount returns Count() of the bitwise AND without allocating it.
	IntersectCount(other Bitmap) uint64

	// Clone returns an independent copy.
	Clone() Bitmap

	// Equal reports whether both bitmaps have the same length and bits.
	Equal(other Bitmap) bool

	// Words returns a copy of the underlying 64-bit words.
	Words() []uint64
}

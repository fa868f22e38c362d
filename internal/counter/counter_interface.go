package counter

// Vector is a fixed-length array of small saturating counters.
// Every index must be < Len(); counters never wrap around.
type Vector interface {
	// Get returns the value of counter i.
	Get(i uint64) uint32

	// Increment adds 1 to counter i unless it already holds Max().
	Increment(i uint64)

	// Decrement subtracts 1 from counter i unless it is already 0.
	Decrement(i uint64)

	// NonZero returns the number of counters holding a value > 0.
	NonZero() uint64

	// Len returns the number of counters.
	Len() uint64

	// Width returns the number of bits per counter.
	Width() uint8

	// Max returns the saturation value 2^Width()-1.
	Max() uint32

	// Clear resets every counter to 0.
	Clear()
}

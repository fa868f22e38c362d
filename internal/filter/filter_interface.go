package filter

// Filter answers set membership with no false negatives: MayContain returns
// false only when the key was definitely never added, and true when it
// might have been.
type Filter interface {
	// Add inserts a key.
	Add(key []byte)

	// MayContain returns true if the key might be in the set.
	// Returns false if the key is definitely NOT in the set.
	MayContain(key []byte) bool

	// ApproximateCount estimates the number of distinct keys added from
	// the occupancy of the underlying storage.
	ApproximateCount() float64

	// Inserted returns the raw number of Add calls (less removals, for
	// filters that support them).
	Inserted() uint64

	// Clear forgets every key while keeping m and k.
	Clear()

	// M returns the number of storage slots.
	M() uint64

	// K returns the number of positions derived per key.
	K() uint32
}

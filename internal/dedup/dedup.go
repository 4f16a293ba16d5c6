// Package dedup tracks the content hashes of search states generated in one
// run so equivalent states are expanded at most once.
package dedup

import "github.com/RoaringBitmap/roaring/v2/roaring64"

// Set is a set of 64-bit state hashes backed by a compressed bitmap.
//
// Set is not safe for concurrent use.
type Set struct {
	bits    *roaring64.Bitmap
	lookups uint64
	hits    uint64
}

// New creates an empty set.
func New() *Set {
	return &Set{bits: roaring64.New()}
}

// Add records h and reports whether it was absent.
func (s *Set) Add(h uint64) bool {
	s.lookups++

	if s.bits.CheckedAdd(h) {
		return true
	}

	s.hits++

	return false
}

// Contains reports whether h was recorded.
func (s *Set) Contains(h uint64) bool {
	return s.bits.Contains(h)
}

// Len returns the number of recorded hashes.
func (s *Set) Len() int {
	return int(s.bits.GetCardinality())
}

// Stats is a snapshot of set counters.
type Stats struct {
	Size    int    // distinct hashes recorded
	Lookups uint64 // Add calls
	Hits    uint64 // Add calls that found the hash present
	Bytes   uint64 // serialized bitmap size
}

// Stats returns a snapshot of the set counters.
func (s *Set) Stats() Stats {
	return Stats{
		Size:    s.Len(),
		Lookups: s.lookups,
		Hits:    s.hits,
		Bytes:   s.bits.GetSizeInBytes(),
	}
}

// Reset clears the set and its counters.
func (s *Set) Reset() {
	s.bits.Clear()
	s.lookups = 0
	s.hits = 0
}

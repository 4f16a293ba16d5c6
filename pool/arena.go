package pool

import (
	"fmt"
	"iter"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

const (
	// segmentBits determines the size of each arena segment.
	// 8 bits = 256 slots per segment.
	segmentBits = 8
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1
)

// Handle addresses a slot in an Arena.
type Handle int32

// Nil is the handle that addresses no slot.
const Nil Handle = -1

// IsNil reports whether h addresses no slot.
func (h Handle) IsNil() bool { return h < 0 }

type segment[T any] struct {
	items [segmentSize]T
}

// Arena is an index-based slot allocator.
//
// Slots live in fixed-size segments, so a pointer returned by Alloc or At
// stays valid until the arena itself is dropped. A freed slot keeps its
// contents and is handed out again by the next Alloc; callers reset it.
//
// Arena is not safe for concurrent use.
type Arena[T any] struct {
	segments  []*segment[T]
	next      int // high-water mark of ever-issued slots
	free      []Handle
	live      *bitset.BitSet
	liveCount int
	increment int
}

// NewArena creates an empty arena whose free stack grows by increment.
// It panics with ErrInvalidIncrement if increment is not positive.
func NewArena[T any](increment int) *Arena[T] {
	if increment <= 0 {
		panic(ErrInvalidIncrement)
	}

	return &Arena[T]{
		free:      make([]Handle, 0, increment),
		live:      bitset.New(segmentSize),
		increment: increment,
	}
}

// Alloc returns a free slot handle and its address.
func (a *Arena[T]) Alloc() (Handle, *T) {
	var h Handle

	if n := len(a.free); n > 0 {
		h = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		if a.next == len(a.segments)*segmentSize {
			a.segments = append(a.segments, &segment[T]{})
		}

		h = Handle(a.next)
		a.next++
	}

	a.live.Set(uint(h))
	a.liveCount++

	return h, a.slot(h)
}

// Free returns h to the free stack. Freeing a handle that is not live panics.
func (a *Arena[T]) Free(h Handle) {
	if !a.Valid(h) {
		panic(fmt.Sprintf("pool: free of invalid handle %d", h))
	}

	a.live.Clear(uint(h))
	a.liveCount--

	if len(a.free) == cap(a.free) {
		a.free = slices.Grow(a.free, a.increment)
	}

	a.free = append(a.free, h)
}

// At returns the address of the slot h. It does not check liveness.
func (a *Arena[T]) At(h Handle) *T {
	return a.slot(h)
}

func (a *Arena[T]) slot(h Handle) *T {
	return &a.segments[h>>segmentBits].items[h&segmentMask]
}

// Valid reports whether h addresses a live slot.
func (a *Arena[T]) Valid(h Handle) bool {
	return h >= 0 && int(h) < a.next && a.live.Test(uint(h))
}

// Live returns the number of allocated slots.
func (a *Arena[T]) Live() int {
	return a.liveCount
}

// Cap returns the number of slots ever issued.
func (a *Arena[T]) Cap() int {
	return a.next
}

// All yields every live slot in handle order.
func (a *Arena[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i, ok := a.live.NextSet(0); ok; i, ok = a.live.NextSet(i + 1) {
			if !yield(Handle(i), a.slot(Handle(i))) {
				return
			}
		}
	}
}

// Reset frees every slot at once. Segments and slot contents are kept for
// reuse.
func (a *Arena[T]) Reset() {
	a.live.ClearAll()
	a.liveCount = 0
	a.next = 0
	a.free = a.free[:0]
}

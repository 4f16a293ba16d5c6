package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slot struct {
	keys []int
}

func TestArena_AllocFree(t *testing.T) {
	a := NewArena[slot](DefaultIncrement)

	h0, s0 := a.Alloc()
	h1, _ := a.Alloc()
	assert.Equal(t, Handle(0), h0)
	assert.Equal(t, Handle(1), h1)
	assert.Equal(t, 2, a.Live())
	assert.True(t, a.Valid(h0))

	s0.keys = append(s0.keys, 42)
	assert.Same(t, s0, a.At(h0))

	a.Free(h0)
	assert.False(t, a.Valid(h0))
	assert.Equal(t, 1, a.Live())

	h2, s2 := a.Alloc()
	assert.Equal(t, h0, h2, "freed handle should be reused")
	assert.Equal(t, []int{42}, s2.keys, "slot contents survive reuse")
	assert.Equal(t, 2, a.Cap())
}

func TestArena_PointerStability(t *testing.T) {
	a := NewArena[slot](4)

	h, first := a.Alloc()
	first.keys = []int{7}

	for range 3 * segmentSize {
		a.Alloc()
	}

	assert.Same(t, first, a.At(h))
	assert.Equal(t, []int{7}, a.At(h).keys)
	assert.Equal(t, 3*segmentSize+1, a.Live())
}

func TestArena_DoubleFreePanics(t *testing.T) {
	a := NewArena[slot](DefaultIncrement)
	h, _ := a.Alloc()
	a.Free(h)

	assert.Panics(t, func() { a.Free(h) })
	assert.Panics(t, func() { a.Free(Nil) })
	assert.True(t, Nil.IsNil())
}

func TestArena_AllAndReset(t *testing.T) {
	a := NewArena[slot](2)

	var handles []Handle
	for range 10 {
		h, _ := a.Alloc()
		handles = append(handles, h)
	}

	a.Free(handles[3])
	a.Free(handles[7])

	var seen []Handle
	for h := range a.All() {
		seen = append(seen, h)
	}
	require.Len(t, seen, 8)
	assert.NotContains(t, seen, handles[3])
	assert.NotContains(t, seen, handles[7])

	a.Reset()
	assert.Equal(t, 0, a.Live())
	assert.Equal(t, 0, a.Cap())

	h, _ := a.Alloc()
	assert.Equal(t, Handle(0), h)
}

func TestArena_InvalidIncrement(t *testing.T) {
	assert.PanicsWithValue(t, ErrInvalidIncrement, func() {
		NewArena[slot](0)
	})
}

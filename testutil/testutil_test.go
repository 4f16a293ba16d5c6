package testutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInts(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.Ints(100, 10)

	require.Len(t, v, 100)
	for _, x := range v {
		assert.GreaterOrEqual(t, x, 0)
		assert.Less(t, x, 10)
	}
}

func TestPerm(t *testing.T) {
	rng := NewRNG(4711)

	p := rng.Perm(50)
	sorted := slices.Clone(p)
	slices.Sort(sorted)

	for i, x := range sorted {
		assert.Equal(t, i, x)
	}
}

func TestZipfInts(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.ZipfInts(1000, 100, 1.5)

	counts := make(map[int]int)
	for _, x := range v {
		require.Less(t, x, 100)
		counts[x]++
	}

	assert.Greater(t, counts[0], counts[50], "small values should dominate")
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	v1 := rng.Ints(10, 1000)

	rng.Reset()
	v2 := rng.Ints(10, 1000)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int64(4711), rng.Seed())
}

package pagesearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frontierNode(id, cost int, seq uint64, scores ...int) *node {
	n := &node{id: id}
	n.Cost = cost
	n.seq = seq
	n.Scores = scores
	return n
}

func TestFrontier_PopEach(t *testing.T) {
	f, err := newFrontier[*node](2, 3)
	require.NoError(t, err)

	// Tree 0 prefers a, tree 1 prefers b.
	a := frontierNode(1, 1, 0, 0, 9)
	b := frontierNode(2, 1, 1, 9, 0)
	c := frontierNode(3, 1, 2, 5, 5)

	for _, s := range []*node{a, b, c} {
		f.push(s)
	}
	require.Equal(t, 3, f.len())
	require.NoError(t, f.verify())

	popped := f.popEach(nil)
	assert.Equal(t, []*node{a, b}, popped)
	assert.Equal(t, 1, f.len())
	require.NoError(t, f.verify())

	popped = f.popEach(popped[:0])
	assert.Equal(t, []*node{c}, popped)
	assert.Equal(t, 0, f.len())
}

func TestFrontier_SharedLeader(t *testing.T) {
	f, err := newFrontier[*node](2, 3)
	require.NoError(t, err)

	a := frontierNode(1, 0, 0, 1, 1)
	b := frontierNode(2, 0, 1, 2, 2)
	f.push(a)
	f.push(b)

	// a leads both orderings but is returned once; b follows from tree 1.
	assert.Equal(t, []*node{a, b}, f.popEach(nil))
	assert.Zero(t, f.len())
}

func TestFrontier_TieBreakBySeq(t *testing.T) {
	f, err := newFrontier[*node](1, 4)
	require.NoError(t, err)

	for i := range 20 {
		f.push(frontierNode(i, 3, uint64(19-i), 0))
	}

	prev := uint64(0)
	for i := range 20 {
		popped := f.popEach(nil)
		require.Len(t, popped, 1)
		if i > 0 {
			assert.Greater(t, popped[0].seq, prev)
		}
		prev = popped[0].seq
	}
}

func TestFrontier_Clear(t *testing.T) {
	f, err := newFrontier[*node](3, 3)
	require.NoError(t, err)

	for i := range 50 {
		f.push(frontierNode(i, i%7, uint64(i), i%3, i%5, i%11))
	}

	released := map[int]int{}
	f.clear(func(n *node) { released[n.id]++ })

	assert.Len(t, released, 50)
	for id, count := range released {
		assert.Equal(t, 1, count, "state %d released once", id)
	}
	assert.Zero(t, f.len())
	require.NoError(t, f.verify())
}

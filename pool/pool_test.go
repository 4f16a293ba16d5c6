package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id  int
	buf []int
}

func TestPool_Basic(t *testing.T) {
	created := 0
	p := New(func() *item {
		created++
		return &item{id: created}
	})

	a := p.Acquire()
	b := p.Acquire()
	assert.Equal(t, 2, created)
	assert.NotSame(t, a, b)
	assert.Equal(t, 0, p.Len())

	p.Release(a)
	assert.Equal(t, 1, p.Len())

	c := p.Acquire()
	assert.Same(t, a, c, "released instance should be reused")
	assert.Equal(t, 2, created)

	stats := p.Stats()
	assert.Equal(t, uint64(2), stats.Created)
	assert.Equal(t, uint64(3), stats.Acquired)
	assert.Equal(t, uint64(1), stats.Released)
	assert.Equal(t, uint64(1), stats.Reused)
	assert.Equal(t, 0, stats.Free)
}

func TestPool_LIFO(t *testing.T) {
	p := New(func() *item { return &item{} })

	items := []*item{p.Acquire(), p.Acquire(), p.Acquire()}
	for _, it := range items {
		p.Release(it)
	}

	assert.Same(t, items[2], p.Acquire())
	assert.Same(t, items[1], p.Acquire())
	assert.Same(t, items[0], p.Acquire())
}

func TestPool_NoReinitialization(t *testing.T) {
	p := New(func() *item { return &item{} })

	it := p.Acquire()
	it.buf = append(it.buf, 1, 2, 3)
	p.Release(it)

	again := p.Acquire()
	assert.Equal(t, []int{1, 2, 3}, again.buf, "reused instance keeps previous contents")
}

func TestPool_Growth(t *testing.T) {
	p := New(func() int { return 0 }, func(o *Options) {
		o.Increment = 4
	})
	assert.Equal(t, 4, p.Cap())

	for i := range 9 {
		p.Release(i)
	}

	assert.Equal(t, 9, p.Len())
	assert.GreaterOrEqual(t, p.Cap(), 9)
}

func TestPool_Prealloc(t *testing.T) {
	p := New(func() *item { return &item{} }, func(o *Options) {
		o.Prealloc = 5
	})

	assert.Equal(t, 5, p.Len())
	assert.Equal(t, uint64(5), p.Stats().Created)

	p.Acquire()
	assert.Equal(t, uint64(1), p.Stats().Reused)
}

func TestPool_InvalidConfig(t *testing.T) {
	t.Run("NilConstructor", func(t *testing.T) {
		assert.PanicsWithValue(t, ErrNilConstructor, func() {
			New[int](nil)
		})
	})

	t.Run("ZeroIncrement", func(t *testing.T) {
		assert.PanicsWithValue(t, ErrInvalidIncrement, func() {
			New(func() int { return 0 }, func(o *Options) { o.Increment = 0 })
		})
	})
}

func TestSynchronized(t *testing.T) {
	p := New(func() *item { return &item{} })
	s := Synchronized[*item](p)

	assert.Same(t, s, Synchronized[*item](s), "wrapping twice returns the same view")
	assert.Same(t, p, s.Unwrap())

	const (
		goroutines = 8
		rounds     = 500
	)

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				it := s.Acquire()
				it.id++
				s.Release(it)
			}
		}()
	}
	wg.Wait()

	stats := p.Stats()
	require.Equal(t, uint64(goroutines*rounds), stats.Acquired)
	assert.Equal(t, stats.Acquired, stats.Released)
	assert.LessOrEqual(t, stats.Created, uint64(goroutines))
	assert.Equal(t, int(stats.Created), p.Len())
}

package pool

import (
	"errors"
	"slices"
	"sync"
)

// DefaultIncrement is the number of free-list slots added whenever the free
// list runs out of capacity.
const DefaultIncrement = 10

var (
	// ErrInvalidIncrement is raised when a pool or arena is configured with a
	// non-positive growth increment.
	ErrInvalidIncrement = errors.New("pool: increment must be positive")

	// ErrNilConstructor is raised when a pool is created without a constructor.
	ErrNilConstructor = errors.New("pool: constructor must not be nil")
)

// Allocator hands out reusable instances of T.
type Allocator[T any] interface {
	// Acquire returns a previously released instance or a new one.
	Acquire() T
	// Release returns an instance for future reuse. The caller gives up
	// ownership and must not touch the instance afterwards.
	Release(T)
}

// Options configures a Pool.
type Options struct {
	// Increment is the free-list growth step.
	Increment int

	// Prealloc constructs this many instances up front.
	Prealloc int
}

// DefaultOptions contains the default pool configuration.
var DefaultOptions = Options{
	Increment: DefaultIncrement,
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Created  uint64 // instances built by the constructor
	Acquired uint64 // total Acquire calls
	Released uint64 // total Release calls
	Reused   uint64 // Acquire calls served from the free list
	Free     int    // instances currently in the free list
}

// Pool recycles instances of T through a LIFO free list.
//
// Pool is not safe for concurrent use.
type Pool[T any] struct {
	newFn     func() T
	free      []T
	increment int
	stats     Stats
}

// New creates a pool that builds instances with newFn.
//
// New panics with ErrNilConstructor or ErrInvalidIncrement when misconfigured.
func New[T any](newFn func() T, optFns ...func(o *Options)) *Pool[T] {
	if newFn == nil {
		panic(ErrNilConstructor)
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Increment <= 0 {
		panic(ErrInvalidIncrement)
	}

	p := &Pool[T]{
		newFn:     newFn,
		increment: opts.Increment,
		free:      make([]T, 0, max(opts.Increment, opts.Prealloc)),
	}

	for range opts.Prealloc {
		p.free = append(p.free, newFn())
		p.stats.Created++
	}

	return p
}

// Acquire pops the most recently released instance, or constructs a new one
// when the free list is empty. Reused instances keep their previous contents.
func (p *Pool[T]) Acquire() T {
	p.stats.Acquired++

	n := len(p.free)
	if n == 0 {
		p.stats.Created++
		return p.newFn()
	}

	v := p.free[n-1]

	var zero T
	p.free[n-1] = zero // drop the reference held by the backing array
	p.free = p.free[:n-1]
	p.stats.Reused++

	return v
}

// Release pushes v onto the free list, growing it by the configured
// increment when full.
func (p *Pool[T]) Release(v T) {
	p.stats.Released++

	if len(p.free) == cap(p.free) {
		p.free = slices.Grow(p.free, p.increment)
	}

	p.free = append(p.free, v)
}

// Len returns the number of instances waiting in the free list.
func (p *Pool[T]) Len() int {
	return len(p.free)
}

// Cap returns the current free-list capacity.
func (p *Pool[T]) Cap() int {
	return cap(p.free)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() Stats {
	s := p.stats
	s.Free = len(p.free)
	return s
}

// SyncAllocator serializes access to an underlying Allocator.
type SyncAllocator[T any] struct {
	mu    sync.Mutex
	inner Allocator[T]
}

// Synchronized wraps a with a mutex so several goroutines can share it.
// All users of a must go through the returned view.
func Synchronized[T any](a Allocator[T]) *SyncAllocator[T] {
	if s, ok := a.(*SyncAllocator[T]); ok {
		return s
	}

	return &SyncAllocator[T]{inner: a}
}

// Acquire implements Allocator.
func (s *SyncAllocator[T]) Acquire() T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inner.Acquire()
}

// Release implements Allocator.
func (s *SyncAllocator[T]) Release(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inner.Release(v)
}

// Unwrap returns the wrapped allocator.
func (s *SyncAllocator[T]) Unwrap() Allocator[T] {
	return s.inner
}

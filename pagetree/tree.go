package pagetree

import (
	"cmp"
	"fmt"
	"iter"
	"strings"

	"github.com/hupe1980/pagesearch/pool"
)

const (
	// DefaultFanOut is the default page capacity.
	DefaultFanOut = 6

	// MinFanOut is the smallest supported page capacity.
	MinFanOut = 3
)

// Options configures a Tree.
type Options struct {
	// FanOut is the maximum number of keys per non-root page.
	FanOut int

	// ArenaIncrement is the growth step of the page arena's free stack.
	ArenaIncrement int
}

// DefaultOptions contains the default tree configuration.
var DefaultOptions = Options{
	FanOut:         DefaultFanOut,
	ArenaIncrement: pool.DefaultIncrement,
}

// Tree is an ordered multiset of keys.
//
// Tree is not safe for concurrent use.
type Tree[K any] struct {
	cmp    func(a, b K) int
	arena  *pool.Arena[page[K]]
	root   pool.Handle
	count  int
	height int // levels, a lone root leaf is height 1

	fanOut  int // C
	floor   int // m = ⌊2C/3⌋
	rootCap int // 2m
	keyCap  int // backing array size, large enough for any transient overflow

	path    []frame
	scratch []K
	kids    []pool.Handle
	opts    Options
}

// New creates an empty tree ordered by cmp.
func New[K any](cmp func(a, b K) int, optFns ...func(o *Options)) (*Tree[K], error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if cmp == nil {
		return nil, ErrNilCompare
	}

	if opts.FanOut < MinFanOut {
		return nil, &ErrInvalidFanOut{FanOut: opts.FanOut}
	}

	if opts.ArenaIncrement <= 0 {
		opts.ArenaIncrement = pool.DefaultIncrement
	}

	floor := 2 * opts.FanOut / 3

	t := &Tree[K]{
		cmp:     cmp,
		arena:   pool.NewArena[page[K]](opts.ArenaIncrement),
		fanOut:  opts.FanOut,
		floor:   floor,
		rootCap: 2 * floor,
		keyCap:  2*floor + 2,
		opts:    opts,
	}

	t.root, _ = t.alloc(true)
	t.height = 1

	return t, nil
}

// NewOrdered creates an empty tree over a naturally ordered key type.
func NewOrdered[K cmp.Ordered](optFns ...func(o *Options)) (*Tree[K], error) {
	return New(cmp.Compare[K], optFns...)
}

// Len returns the number of keys.
func (t *Tree[K]) Len() int { return t.count }

// Empty reports whether the tree holds no keys.
func (t *Tree[K]) Empty() bool { return t.count == 0 }

// Height returns the number of page levels, or 0 for an empty tree.
func (t *Tree[K]) Height() int {
	if t.count == 0 {
		return 0
	}
	return t.height
}

// FanOut returns the page capacity C.
func (t *Tree[K]) FanOut() int { return t.fanOut }

// Floor returns the minimum number of keys held by a non-root page.
func (t *Tree[K]) Floor() int { return t.floor }

// Pages returns the number of live pages.
func (t *Tree[K]) Pages() int { return t.arena.Live() }

// Min returns the smallest key.
func (t *Tree[K]) Min() (K, bool) {
	var zero K
	if t.count == 0 {
		return zero, false
	}

	p := t.page(t.root)
	for !p.leaf {
		p = t.page(p.children[0])
	}

	return p.keys[0], true
}

// Max returns the largest key.
func (t *Tree[K]) Max() (K, bool) {
	var zero K
	if t.count == 0 {
		return zero, false
	}

	p := t.page(t.root)
	for !p.leaf {
		p = t.page(p.children[len(p.children)-1])
	}

	return p.keys[len(p.keys)-1], true
}

// Contains reports whether a key comparing equal to key is present.
func (t *Tree[K]) Contains(key K) bool {
	h := t.root
	for {
		p := t.page(h)

		i, found := t.lowerBound(p.keys, key)
		if found {
			return true
		}

		if p.leaf {
			return false
		}

		h = p.children[i]
	}
}

// All returns an in-order sequence of (key, depth) pairs, where the root is
// at depth 0. The sequence can be ranged over repeatedly; the tree must not
// be modified while a range is in progress.
func (t *Tree[K]) All() iter.Seq2[K, int] {
	return func(yield func(K, int) bool) {
		if t.count == 0 {
			return
		}
		t.walk(t.root, 0, yield)
	}
}

func (t *Tree[K]) walk(h pool.Handle, depth int, yield func(K, int) bool) bool {
	p := t.page(h)

	if p.leaf {
		for _, k := range p.keys {
			if !yield(k, depth) {
				return false
			}
		}
		return true
	}

	for i, k := range p.keys {
		if !t.walk(p.children[i], depth+1, yield) {
			return false
		}
		if !yield(k, depth) {
			return false
		}
	}

	return t.walk(p.children[len(p.keys)], depth+1, yield)
}

// Ascend calls fn for every key in order until fn returns false.
func (t *Tree[K]) Ascend(fn func(K) bool) {
	for k := range t.All() {
		if !fn(k) {
			return
		}
	}
}

// Keys returns all keys in order.
func (t *Tree[K]) Keys() []K {
	out := make([]K, 0, t.count)
	for k := range t.All() {
		out = append(out, k)
	}
	return out
}

// Clone returns a deep copy with its own page arena.
func (t *Tree[K]) Clone() *Tree[K] {
	c := &Tree[K]{
		cmp:     t.cmp,
		arena:   pool.NewArena[page[K]](t.opts.ArenaIncrement),
		count:   t.count,
		height:  t.height,
		fanOut:  t.fanOut,
		floor:   t.floor,
		rootCap: t.rootCap,
		keyCap:  t.keyCap,
		opts:    t.opts,
	}

	c.root = c.copyPage(t, t.root)

	return c
}

func (t *Tree[K]) copyPage(src *Tree[K], h pool.Handle) pool.Handle {
	sp := src.page(h)

	nh, np := t.alloc(sp.leaf)
	np.keys = append(np.keys, sp.keys...)

	for _, ch := range sp.children {
		np.children = append(np.children, t.copyPage(src, ch))
	}

	return nh
}

// Clear removes every key. Pages go back to the arena and one empty root
// remains.
func (t *Tree[K]) Clear() {
	for _, p := range t.arena.All() {
		clear(p.keys)
		p.keys = p.keys[:0]
		p.children = p.children[:0]
	}

	t.arena.Reset()
	t.root, _ = t.alloc(true)
	t.count = 0
	t.height = 1
}

// String renders the tree level by level, one line per depth.
func (t *Tree[K]) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "pagetree(fanout=%d, len=%d, height=%d, pages=%d)\n", t.fanOut, t.count, t.Height(), t.Pages())

	level := []pool.Handle{t.root}
	for depth := 0; len(level) > 0; depth++ {
		var next []pool.Handle

		fmt.Fprintf(&sb, "%d:", depth)
		for _, h := range level {
			p := t.page(h)
			fmt.Fprintf(&sb, " %v", p.keys)
			next = append(next, p.children...)
		}
		sb.WriteByte('\n')

		level = next
	}

	return sb.String()
}

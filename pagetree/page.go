package pagetree

import "github.com/hupe1980/pagesearch/pool"

// page is one node of the tree. Internal pages hold len(keys)+1 children;
// leaves hold none.
type page[K any] struct {
	keys     []K
	children []pool.Handle
	leaf     bool
}

func (p *page[K]) size() int { return len(p.keys) }

// frame records one step of a root-to-leaf descent: the page and the index
// of the child taken from it.
type frame struct {
	h pool.Handle
	i int
}

// alloc takes a page from the arena and resets it. Backing arrays of reused
// pages are kept so steady-state mutation does not allocate.
func (t *Tree[K]) alloc(leaf bool) (pool.Handle, *page[K]) {
	h, p := t.arena.Alloc()
	if p.keys == nil {
		p.keys = make([]K, 0, t.keyCap)
		p.children = make([]pool.Handle, 0, t.keyCap+1)
	}

	p.keys = p.keys[:0]
	p.children = p.children[:0]
	p.leaf = leaf

	return h, p
}

// release zeroes the page's keys and hands it back to the arena.
func (t *Tree[K]) release(h pool.Handle) {
	p := t.arena.At(h)
	clear(p.keys)
	p.keys = p.keys[:0]
	p.children = p.children[:0]
	t.arena.Free(h)
}

func (t *Tree[K]) page(h pool.Handle) *page[K] {
	return t.arena.At(h)
}

// upperBound returns the first index whose key is greater than key.
func (t *Tree[K]) upperBound(keys []K, key K) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if t.cmp(keys[mid], key) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo
}

// lowerBound returns the first index whose key is not less than key, and
// whether that key compares equal.
func (t *Tree[K]) lowerBound(keys []K, key K) (int, bool) {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if t.cmp(keys[mid], key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo, lo < len(keys) && t.cmp(keys[lo], key) == 0
}

package pagetree

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/pagesearch/pool"
)

// CheckIntegrity validates every page invariant and panics with an
// *IntegrityError on the first violation.
func (t *Tree[K]) CheckIntegrity() {
	if err := t.Verify(); err != nil {
		panic(err)
	}
}

// Verify validates every page invariant:
//
//   - keys within a page are in non-decreasing order
//   - keys of child i lie between separators i-1 and i
//   - a non-root page holds between Floor and FanOut keys
//   - the root holds between 1 and 2*Floor keys unless the tree is empty
//   - internal pages hold one more child than keys, leaves hold none
//   - all leaves sit at the same depth, equal to Height-1
//   - every page is reachable exactly once and no live page is orphaned
//   - the number of keys reached equals Len
//
// It returns nil or an *IntegrityError.
func (t *Tree[K]) Verify() error {
	v := &verifier[K]{
		t:         t,
		seen:      bitset.New(uint(t.arena.Cap())),
		leafDepth: -1,
	}

	if err := v.check(t.root, 0, nil, nil); err != nil {
		return err
	}

	if v.keys != t.count {
		return newIntegrityError(t.root, 0, "counted %d keys, recorded %d", v.keys, t.count)
	}

	if v.pages != t.arena.Live() {
		return newIntegrityError(t.root, 0, "reached %d pages, %d live in arena", v.pages, t.arena.Live())
	}

	if v.leafDepth+1 != t.height {
		return newIntegrityError(t.root, 0, "leaves at depth %d, recorded height %d", v.leafDepth, t.height)
	}

	return nil
}

type verifier[K any] struct {
	t         *Tree[K]
	seen      *bitset.BitSet
	leafDepth int
	keys      int
	pages     int
}

func (v *verifier[K]) check(h pool.Handle, depth int, lo, hi *K) error {
	t := v.t

	if !t.arena.Valid(h) {
		return newIntegrityError(h, depth, "handle does not address a live page")
	}
	if v.seen.Test(uint(h)) {
		return newIntegrityError(h, depth, "page reachable more than once")
	}
	v.seen.Set(uint(h))
	v.pages++

	p := t.page(h)
	n := p.size()

	if depth == 0 {
		if t.count == 0 {
			if n != 0 || !p.leaf {
				return newIntegrityError(h, depth, "empty tree must have an empty leaf root, got %d keys", n)
			}
		} else if n < 1 || n > t.rootCap {
			return newIntegrityError(h, depth, "root holds %d keys, want [1, %d]", n, t.rootCap)
		}
	} else if n < t.floor || n > t.fanOut {
		return newIntegrityError(h, depth, "page holds %d keys, want [%d, %d]", n, t.floor, t.fanOut)
	}

	for i := 1; i < n; i++ {
		if t.cmp(p.keys[i-1], p.keys[i]) > 0 {
			return newIntegrityError(h, depth, "keys %d and %d out of order", i-1, i)
		}
	}

	if n > 0 {
		if lo != nil && t.cmp(*lo, p.keys[0]) > 0 {
			return newIntegrityError(h, depth, "smallest key below left separator")
		}
		if hi != nil && t.cmp(p.keys[n-1], *hi) > 0 {
			return newIntegrityError(h, depth, "largest key above right separator")
		}
	}

	v.keys += n

	if p.leaf {
		if len(p.children) != 0 {
			return newIntegrityError(h, depth, "leaf holds %d children", len(p.children))
		}
		if v.leafDepth == -1 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return newIntegrityError(h, depth, "leaf depth %d differs from %d", depth, v.leafDepth)
		}
		return nil
	}

	if len(p.children) != n+1 {
		return newIntegrityError(h, depth, "internal page holds %d keys and %d children", n, len(p.children))
	}

	for i, ch := range p.children {
		clo, chi := lo, hi
		if i > 0 {
			clo = &p.keys[i-1]
		}
		if i < n {
			chi = &p.keys[i]
		}

		if err := v.check(ch, depth+1, clo, chi); err != nil {
			return err
		}
	}

	return nil
}

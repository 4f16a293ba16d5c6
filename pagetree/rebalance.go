package pagetree

import (
	"slices"

	"github.com/hupe1980/pagesearch/pool"
)

// rotateLeft moves the smallest key of child s+1 up into separator s and the
// old separator down to the end of child s.
func (t *Tree[K]) rotateLeft(pp *page[K], s int) {
	l := t.page(pp.children[s])
	r := t.page(pp.children[s+1])

	l.keys = append(l.keys, pp.keys[s])
	pp.keys[s] = r.keys[0]
	r.keys = slices.Delete(r.keys, 0, 1)

	if !r.leaf {
		l.children = append(l.children, r.children[0])
		r.children = slices.Delete(r.children, 0, 1)
	}
}

// rotateRight moves the largest key of child s up into separator s and the
// old separator down to the front of child s+1.
func (t *Tree[K]) rotateRight(pp *page[K], s int) {
	l := t.page(pp.children[s])
	r := t.page(pp.children[s+1])

	last := len(l.keys) - 1
	r.keys = slices.Insert(r.keys, 0, pp.keys[s])
	pp.keys[s] = l.keys[last]
	l.keys = slices.Delete(l.keys, last, last+1)

	if !l.leaf {
		lc := len(l.children) - 1
		r.children = slices.Insert(r.children, 0, l.children[lc])
		l.children = l.children[:lc]
	}
}

// redistribute spreads the n adjacent children of pp starting at first,
// together with their n-1 separators, evenly over k pages with k-1
// separators. Pages are reused left to right; extra pages are allocated or
// released as needed. pp gains or loses k-n separators.
func (t *Tree[K]) redistribute(pp *page[K], first, n, k int) {
	leaf := t.page(pp.children[first]).leaf

	keys := t.scratch[:0]
	kids := t.kids[:0]
	for j := range n {
		c := t.page(pp.children[first+j])
		keys = append(keys, c.keys...)
		kids = append(kids, c.children...)
		if j < n-1 {
			keys = append(keys, pp.keys[first+j])
		}
	}

	handles := make([]pool.Handle, k)
	copy(handles, pp.children[first:first+min(n, k)])
	for j := n; j < k; j++ {
		handles[j], _ = t.alloc(leaf)
	}
	for j := k; j < n; j++ {
		t.release(pp.children[first+j])
	}

	total := len(keys) - (k - 1)
	base, extra := total/k, total%k
	seps := make([]K, 0, k-1)

	ko, co := 0, 0
	for j, h := range handles {
		size := base
		if j < extra {
			size++
		}

		p := t.page(h)
		clear(p.keys)
		p.keys = append(p.keys[:0], keys[ko:ko+size]...)
		ko += size

		p.children = p.children[:0]
		if !leaf {
			p.children = append(p.children, kids[co:co+size+1]...)
			co += size + 1
		}

		if j < k-1 {
			seps = append(seps, keys[ko])
			ko++
		}
	}

	pp.keys = slices.Replace(pp.keys, first, first+n-1, seps...)
	pp.children = slices.Replace(pp.children, first, first+n, handles...)

	clear(keys)
	t.scratch = keys[:0]
	t.kids = kids[:0]
}

// collapseRoot folds the root's two children back into the root and shrinks
// the height by one.
func (t *Tree[K]) collapseRoot() {
	r := t.page(t.root)
	lh, rh := r.children[0], r.children[1]
	l, rp := t.page(lh), t.page(rh)

	keys := t.scratch[:0]
	keys = append(keys, l.keys...)
	keys = append(keys, r.keys[0])
	keys = append(keys, rp.keys...)

	kids := t.kids[:0]
	kids = append(kids, l.children...)
	kids = append(kids, rp.children...)

	r.keys = append(r.keys[:0], keys...)
	r.children = append(r.children[:0], kids...)
	r.leaf = l.leaf

	t.release(lh)
	t.release(rh)
	t.height--

	clear(keys)
	t.scratch = keys[:0]
	t.kids = kids[:0]
}

package pagetree

import "slices"

// Delete removes one key comparing equal to key and reports whether one was
// found.
func (t *Tree[K]) Delete(key K) bool {
	t.path = t.path[:0]

	h := t.root
	for {
		p := t.page(h)
		i, found := t.lowerBound(p.keys, key)

		if found {
			if p.leaf {
				p.keys = slices.Delete(p.keys, i, i+1)
			} else {
				// Swap in the predecessor and remove it from its leaf.
				t.path = append(t.path, frame{h: h, i: i})
				lh := p.children[i]
				lp := t.page(lh)
				for !lp.leaf {
					last := len(lp.children) - 1
					t.path = append(t.path, frame{h: lh, i: last})
					lh = lp.children[last]
					lp = t.page(lh)
				}

				n := len(lp.keys) - 1
				p.keys[i] = lp.keys[n]
				lp.keys = slices.Delete(lp.keys, n, n+1)
			}

			t.count--
			t.fixUnderflow()
			return true
		}

		if p.leaf {
			return false
		}

		t.path = append(t.path, frame{h: h, i: i})
		h = p.children[i]
	}
}

// DeleteMin removes and returns the smallest key.
func (t *Tree[K]) DeleteMin() (K, bool) {
	var zero K
	if t.count == 0 {
		return zero, false
	}

	t.path = t.path[:0]

	h := t.root
	p := t.page(h)
	for !p.leaf {
		t.path = append(t.path, frame{h: h, i: 0})
		h = p.children[0]
		p = t.page(h)
	}

	key := p.keys[0]
	p.keys = slices.Delete(p.keys, 0, 1)

	t.count--
	t.fixUnderflow()

	return key, true
}

// fixUnderflow restores occupancy bounds bottom-up along t.path after the
// leaf at the end of the path lost a key.
func (t *Tree[K]) fixUnderflow() {
	for len(t.path) > 0 {
		f := t.path[len(t.path)-1]
		t.path = t.path[:len(t.path)-1]

		pp := t.page(f.h)
		if t.page(pp.children[f.i]).size() >= t.floor {
			return
		}

		nc := len(pp.children)

		if f.i > 0 && t.page(pp.children[f.i-1]).size() > t.floor {
			t.rotateRight(pp, f.i-1)
			return
		}

		if f.i < nc-1 && t.page(pp.children[f.i+1]).size() > t.floor {
			t.rotateLeft(pp, f.i)
			return
		}

		if nc == 2 {
			// Only the root can have two children; both fit back into it.
			t.collapseRoot()
			return
		}

		first := f.i - 1
		switch f.i {
		case 0:
			first = 0
		case nc - 1:
			first = nc - 3
		}

		keys := 2
		for j := range 3 {
			keys += t.page(pp.children[first+j]).size()
		}

		if keys-1 > 2*t.fanOut {
			// Two pages cannot hold the window; even it out over three.
			t.redistribute(pp, first, 3, 3)
			return
		}

		t.redistribute(pp, first, 3, 2)
	}

	if r := t.page(t.root); r.size() == 0 && !r.leaf {
		child := r.children[0]
		t.release(t.root)
		t.root = child
		t.height--
	}
}

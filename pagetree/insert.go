package pagetree

import "slices"

// Insert adds key to the tree. Duplicates are allowed; a new key is placed
// after every key comparing equal to it.
func (t *Tree[K]) Insert(key K) {
	t.path = t.path[:0]

	h := t.root
	for {
		p := t.page(h)
		i := t.upperBound(p.keys, key)

		if p.leaf {
			p.keys = slices.Insert(p.keys, i, key)
			break
		}

		t.path = append(t.path, frame{h: h, i: i})
		h = p.children[i]
	}

	t.count++
	t.fixOverflow()
}

// fixOverflow restores occupancy bounds bottom-up along t.path after the
// leaf at the end of the path gained a key.
func (t *Tree[K]) fixOverflow() {
	for {
		if len(t.path) == 0 {
			if t.page(t.root).size() > t.rootCap {
				t.splitRoot()
			}
			return
		}

		f := t.path[len(t.path)-1]
		t.path = t.path[:len(t.path)-1]

		pp := t.page(f.h)
		if t.page(pp.children[f.i]).size() <= t.fanOut {
			return
		}

		if f.i > 0 && t.page(pp.children[f.i-1]).size() < t.fanOut {
			t.rotateLeft(pp, f.i-1)
			return
		}

		if f.i < len(pp.children)-1 && t.page(pp.children[f.i+1]).size() < t.fanOut {
			t.rotateRight(pp, f.i)
			return
		}

		// Both neighbours are full: spread two pages over three.
		first := f.i
		if f.i > 0 {
			first = f.i - 1
		}
		t.redistribute(pp, first, 2, 3)
	}
}

// splitRoot divides an overfull root into two pages and grows the height.
func (t *Tree[K]) splitRoot() {
	r := t.page(t.root)
	mid := r.size() / 2

	lh, l := t.alloc(r.leaf)
	rh, rp := t.alloc(r.leaf)

	l.keys = append(l.keys, r.keys[:mid]...)
	rp.keys = append(rp.keys, r.keys[mid+1:]...)
	if !r.leaf {
		l.children = append(l.children, r.children[:mid+1]...)
		rp.children = append(rp.children, r.children[mid+1:]...)
	}

	sep := r.keys[mid]
	clear(r.keys)
	r.keys = append(r.keys[:0], sep)
	r.children = append(r.children[:0], lh, rh)
	r.leaf = false

	t.height++
}

package pagesearch

import (
	"cmp"
	"fmt"

	"github.com/hupe1980/pagesearch/pagetree"
)

// entry is a frontier key: the state's f-value under one heuristic, with
// the insertion sequence as tie-breaker so keys are unique within a run.
type entry[S State] struct {
	f     int
	seq   uint64
	state S
}

func compareEntries[S State](a, b entry[S]) int {
	if c := cmp.Compare(a.f, b.f); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// frontier holds the unexpanded states once per heuristic. Tree i orders
// states by Cost + Scores[i]. Every resident state is present in every tree.
type frontier[S State] struct {
	trees []*pagetree.Tree[entry[S]]
}

func newFrontier[S State](heuristics, fanOut int) (*frontier[S], error) {
	f := &frontier[S]{trees: make([]*pagetree.Tree[entry[S]], heuristics)}

	for i := range f.trees {
		t, err := pagetree.New(compareEntries[S], func(o *pagetree.Options) {
			o.FanOut = fanOut
		})
		if err != nil {
			return nil, err
		}
		f.trees[i] = t
	}

	return f, nil
}

func keyFor[S State](s S, i int) entry[S] {
	b := s.StateBase()
	return entry[S]{f: b.Cost + b.Scores[i], seq: b.seq, state: s}
}

// push inserts s into every tree.
func (f *frontier[S]) push(s S) {
	for i, t := range f.trees {
		t.Insert(keyFor(s, i))
	}
}

// popEach removes the minimum of every tree in turn and appends it to dst.
// A popped state is removed from all other trees at once, so a state that
// leads several orderings is returned a single time.
func (f *frontier[S]) popEach(dst []S) []S {
	for i, t := range f.trees {
		e, ok := t.DeleteMin()
		if !ok {
			break
		}

		for j, other := range f.trees {
			if j != i {
				other.Delete(keyFor(e.state, j))
			}
		}

		dst = append(dst, e.state)
	}

	return dst
}

func (f *frontier[S]) len() int {
	return f.trees[0].Len()
}

// clear empties every tree, handing each resident state to release once.
func (f *frontier[S]) clear(release func(S)) {
	for e := range f.trees[0].All() {
		release(e.state)
	}

	for _, t := range f.trees {
		t.Clear()
	}
}

// verify checks every tree's structure and that all trees hold the same
// number of states.
func (f *frontier[S]) verify() error {
	n := f.trees[0].Len()

	for i, t := range f.trees {
		if err := t.Verify(); err != nil {
			return fmt.Errorf("frontier tree %d: %w", i, err)
		}
		if t.Len() != n {
			return fmt.Errorf("frontier tree %d holds %d states, tree 0 holds %d: %w", i, t.Len(), n, pagetree.ErrCorrupted)
		}
	}

	return nil
}

package pagesearch

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/pagesearch/pool"
	"github.com/hupe1980/pagesearch/testutil"
)

// node is a state of the random DAG test domain.
type node struct {
	Base
	id int
}

func (n *node) Hash() uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n.id))
	return xxhash.Sum64(buf[:])
}

type edge struct {
	to, w int
}

// dag is a seeded random directed acyclic graph. Edges only point from
// lower to higher ids.
type dag struct {
	edges [][]edge
	goal  []bool
	hops  []int // fewest edges to a goal, MaxInt32 if none is reachable
}

func newDAG(seed int64, n, outDegree, goals int) *dag {
	rng := testutil.NewRNG(seed)

	g := &dag{
		edges: make([][]edge, n),
		goal:  make([]bool, n),
		hops:  make([]int, n),
	}

	for i := range n - 1 {
		for range 1 + rng.Intn(outDegree) {
			to := i + 1 + rng.Intn(min(n-i-1, 3*outDegree))
			g.edges[i] = append(g.edges[i], edge{to: to, w: 1 + rng.Intn(9)})
		}
	}

	// Goals sit in the upper half and are always reachable from 0.
	seen := g.reach()

	var candidates []int
	for i := n / 2; i < n; i++ {
		if seen[i] {
			candidates = append(candidates, i)
		}
	}

	for range goals {
		g.goal[candidates[rng.Intn(len(candidates))]] = true
	}

	for i := n - 1; i >= 0; i-- {
		switch {
		case g.goal[i]:
			g.hops[i] = 0
		default:
			g.hops[i] = math.MaxInt32
			for _, e := range g.edges[i] {
				if h := g.hops[e.to]; h != math.MaxInt32 {
					g.hops[i] = min(g.hops[i], h+1)
				}
			}
		}
	}

	return g
}

// reach marks the nodes reachable from 0, itself included.
func (g *dag) reach() []bool {
	seen := make([]bool, len(g.edges))
	stack := []int{0}
	seen[0] = true

	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, e := range g.edges[u] {
			if !seen[e.to] {
				seen[e.to] = true
				stack = append(stack, e.to)
			}
		}
	}

	return seen
}

func (g *dag) reachable() int {
	count := 0
	for _, ok := range g.reach() {
		if ok {
			count++
		}
	}
	return count
}

func (g *dag) isGoal(n *node) int {
	if g.goal[n.id] {
		return 0
	}
	return 1
}

// distance scores by remaining hops, capped so unreachable nodes stay finite.
func (g *dag) distance(n *node) int {
	return min(g.hops[n.id], len(g.edges))
}

// successors returns an operator following the DAG edges. When record is
// not nil it is called with every expanded state.
func (g *dag) successors(name string, record func(*node)) Operator[*node] {
	return NewOperator(name, func(s *node, alloc pool.Allocator[*node], out []*node) []*node {
		if record != nil {
			record(s)
		}

		for _, e := range g.edges[s.id] {
			child := alloc.Acquire()
			child.Reset()
			child.id = e.to
			child.Cost = s.Cost + e.w
			child.Parent = s
			child.Operator = name
			out = append(out, child)
		}

		return out
	})
}

// goalRecorder collects the costs of expanded goal states.
type goalRecorder struct {
	mu    sync.Mutex
	g     *dag
	costs []int
}

func (r *goalRecorder) record(n *node) {
	if !r.g.goal[n.id] {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.costs = append(r.costs, n.Cost)
}

func (r *goalRecorder) min() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	best := math.MaxInt
	for _, c := range r.costs {
		best = min(best, c)
	}
	return best
}

func newNodePool() *pool.Pool[*node] {
	return pool.New(func() *node { return &node{} })
}

func initialNode(p *pool.Pool[*node]) *node {
	n := p.Acquire()
	n.Reset()
	n.id = 0
	return n
}

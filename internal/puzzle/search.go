package puzzle

import (
	"fmt"
	"slices"

	"github.com/hupe1980/pagesearch"
	"github.com/hupe1980/pagesearch/pool"
)

// Slide returns the operator moving the blank one cell in every legal
// direction. Each slide costs 1 and the offspring's Operator field records
// the direction.
func Slide() pagesearch.Operator[*Board] {
	return pagesearch.NewOperator("slide", func(b *Board, alloc pool.Allocator[*Board], out []*Board) []*Board {
		var buf [4]int

		for _, to := range neighbors(b.width, b.blank, buf[:0]) {
			child := alloc.Acquire()
			child.Reset()
			child.set(b.width, b.tiles)

			child.tiles[b.blank], child.tiles[to] = child.tiles[to], child.tiles[b.blank]
			child.blank = to

			child.Cost = b.Cost + 1
			child.Parent = b
			child.Operator = string(direction(b.width, b.blank, to))

			out = append(out, child)
		}

		return out
	})
}

// Manhattan sums the grid distance of every tile from its goal cell.
func Manhattan(b *Board) int {
	sum := 0

	for i, t := range b.tiles {
		if t == 0 {
			continue
		}

		goal := int(t) - 1
		sum += abs(i/b.width-goal/b.width) + abs(i%b.width-goal%b.width)
	}

	return sum
}

// Misplaced counts the tiles not on their goal cell.
func Misplaced(b *Board) int {
	count := 0

	for i, t := range b.tiles {
		if t != 0 && int(t) != i+1 {
			count++
		}
	}

	return count
}

// LinearConflict adds two moves to Manhattan for every pair of tiles that
// sit in their goal row (or column) in reversed order.
func LinearConflict(b *Board) int {
	w := b.width
	conflicts := 0

	for line := range w {
		for i := range w {
			for j := i + 1; j < w; j++ {
				// row
				a, c := b.tiles[line*w+i], b.tiles[line*w+j]
				if a != 0 && c != 0 && (int(a)-1)/w == line && (int(c)-1)/w == line && a > c {
					conflicts++
				}

				// column
				a, c = b.tiles[i*w+line], b.tiles[j*w+line]
				if a != 0 && c != 0 && (int(a)-1)%w == line && (int(c)-1)%w == line && a > c {
					conflicts++
				}
			}
		}
	}

	return Manhattan(b) + 2*conflicts
}

var heuristics = map[string]pagesearch.HeuristicFunc[*Board]{
	"manhattan":       Manhattan,
	"misplaced":       Misplaced,
	"linear-conflict": LinearConflict,
}

// HeuristicNames lists the names accepted by Heuristics.
func HeuristicNames() []string {
	names := make([]string, 0, len(heuristics))
	for name := range heuristics {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Heuristics resolves heuristic names.
func Heuristics(names ...string) ([]pagesearch.Heuristic[*Board], error) {
	out := make([]pagesearch.Heuristic[*Board], 0, len(names))

	for _, name := range names {
		fn, ok := heuristics[name]
		if !ok {
			return nil, fmt.Errorf("puzzle: unknown heuristic %q (known: %v)", name, HeuristicNames())
		}
		out = append(out, pagesearch.NewHeuristic(name, fn))
	}

	return out, nil
}

// Moves returns the blank's directions along path, skipping the initial state.
func Moves(path []*Board) []Move {
	moves := make([]Move, 0, max(len(path)-1, 0))
	for _, b := range path[min(1, len(path)):] {
		moves = append(moves, Move(b.Operator))
	}
	return moves
}

// Apply replays moves on tiles in place. It returns false on an illegal move.
func Apply(width int, tiles []byte, moves []Move) bool {
	blank := slices.Index(tiles, 0)
	if blank < 0 {
		return false
	}

	for _, m := range moves {
		row, col := blank/width, blank%width
		next := blank

		switch m {
		case Up:
			if row == 0 {
				return false
			}
			next -= width
		case Down:
			if row == width-1 {
				return false
			}
			next += width
		case Left:
			if col == 0 {
				return false
			}
			next--
		case Right:
			if col == width-1 {
				return false
			}
			next++
		default:
			return false
		}

		tiles[blank], tiles[next] = tiles[next], tiles[blank]
		blank = next
	}

	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

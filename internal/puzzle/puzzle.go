// Package puzzle implements the sliding-tile puzzle as a pagesearch domain.
//
// A board of width w holds the tiles 1..w*w-1 and a blank (0). The goal
// layout is row-major ascending with the blank in the bottom-right corner.
package puzzle

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/pagesearch"
	"github.com/hupe1980/pagesearch/pool"
)

const (
	// MinWidth is the smallest supported board width.
	MinWidth = 2

	// MaxWidth is the largest supported board width.
	MaxWidth = 8
)

var (
	// ErrInvalidWidth is returned for a width outside [MinWidth, MaxWidth].
	ErrInvalidWidth = errors.New("puzzle: invalid board width")

	// ErrInvalidTiles is returned when the tiles are not a permutation of 0..w*w-1.
	ErrInvalidTiles = errors.New("puzzle: tiles must be a permutation of 0..n-1")

	// ErrUnsolvable is returned for a layout that cannot reach the goal.
	ErrUnsolvable = errors.New("puzzle: layout is not solvable")
)

// Board is a puzzle state.
type Board struct {
	pagesearch.Base

	width int
	tiles []byte
	blank int
}

// Hash implements pagesearch.State.
func (b *Board) Hash() uint64 { return xxhash.Sum64(b.tiles) }

// Width returns the board width.
func (b *Board) Width() int { return b.width }

// Tiles returns the row-major layout. The slice is owned by the board.
func (b *Board) Tiles() []byte { return b.tiles }

// Solved reports whether the board is in the goal layout.
func (b *Board) Solved() bool { return Misplaced(b) == 0 }

func (b *Board) String() string {
	var sb strings.Builder

	cell := len(strconv.Itoa(len(b.tiles) - 1))

	for i, t := range b.tiles {
		if i > 0 {
			if i%b.width == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}

		if t == 0 {
			sb.WriteString(strings.Repeat(".", cell))
			continue
		}

		fmt.Fprintf(&sb, "%*d", cell, t)
	}

	return sb.String()
}

// set copies tiles into b. It does not touch the search bookkeeping.
func (b *Board) set(width int, tiles []byte) {
	b.width = width
	b.tiles = append(b.tiles[:0], tiles...)

	for i, t := range b.tiles {
		if t == 0 {
			b.blank = i
			break
		}
	}
}

// NewPool returns a board pool.
func NewPool(optFns ...func(o *pool.Options)) *pool.Pool[*Board] {
	return pool.New(func() *Board { return &Board{} }, optFns...)
}

// NewBoard takes a board from alloc and fills it with tiles after checking
// that the layout is a solvable permutation.
func NewBoard(alloc pool.Allocator[*Board], width int, tiles []byte) (*Board, error) {
	if err := Validate(width, tiles); err != nil {
		return nil, err
	}

	b := alloc.Acquire()
	b.Reset()
	b.set(width, tiles)

	return b, nil
}

// Validate checks that tiles is a solvable layout of the given width.
func Validate(width int, tiles []byte) error {
	if width < MinWidth || width > MaxWidth {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}

	n := width * width
	if len(tiles) != n {
		return fmt.Errorf("%w: got %d tiles, want %d", ErrInvalidTiles, len(tiles), n)
	}

	seen := make([]bool, n)
	for _, t := range tiles {
		if int(t) >= n || seen[t] {
			return fmt.Errorf("%w: tile %d", ErrInvalidTiles, t)
		}
		seen[t] = true
	}

	if !Solvable(width, tiles) {
		return ErrUnsolvable
	}

	return nil
}

// Solvable reports whether tiles can reach the goal layout. Odd widths need
// an even inversion count; even widths need inversions plus the blank's row
// counted from the bottom (starting at 1) to be odd.
func Solvable(width int, tiles []byte) bool {
	inversions := 0
	blankRow := 0

	for i, a := range tiles {
		if a == 0 {
			blankRow = width - i/width
			continue
		}
		for _, b := range tiles[i+1:] {
			if b != 0 && b < a {
				inversions++
			}
		}
	}

	if width%2 == 1 {
		return inversions%2 == 0
	}

	return (inversions+blankRow)%2 == 1
}

// Goal returns the goal layout for width.
func Goal(width int) []byte {
	n := width * width
	tiles := make([]byte, n)

	for i := range n - 1 {
		tiles[i] = byte(i + 1)
	}

	return tiles
}

// Parse reads a layout of whitespace or comma separated tile numbers. The
// width is the square root of the tile count.
func Parse(s string) (int, []byte, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	width := 0
	for width*width < len(fields) {
		width++
	}

	if width*width != len(fields) {
		return 0, nil, fmt.Errorf("%w: %d tiles do not form a square", ErrInvalidTiles, len(fields))
	}

	tiles := make([]byte, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: %q", ErrInvalidTiles, f)
		}
		tiles[i] = byte(v)
	}

	if err := Validate(width, tiles); err != nil {
		return 0, nil, err
	}

	return width, tiles, nil
}

// Scramble walks moves random slides away from the goal layout. The walk
// never undoes its previous slide, and the result is always solvable.
func Scramble(width, moves int, seed uint64) []byte {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	tiles := Goal(width)
	blank := len(tiles) - 1
	prev := -1

	var candidates []int
	for range moves {
		candidates = neighbors(width, blank, candidates[:0])
		if prev >= 0 && len(candidates) > 1 {
			candidates = removeValue(candidates, prev)
		}

		next := candidates[rng.IntN(len(candidates))]
		tiles[blank], tiles[next] = tiles[next], tiles[blank]
		prev, blank = blank, next
	}

	return tiles
}

func removeValue(s []int, v int) []int {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// Move names the direction the blank travels.
type Move string

const (
	Up    Move = "up"
	Down  Move = "down"
	Left  Move = "left"
	Right Move = "right"
)

// neighbors appends the cells the blank at pos can move to.
func neighbors(width, pos int, dst []int) []int {
	row, col := pos/width, pos%width

	if row > 0 {
		dst = append(dst, pos-width)
	}
	if row < width-1 {
		dst = append(dst, pos+width)
	}
	if col > 0 {
		dst = append(dst, pos-1)
	}
	if col < width-1 {
		dst = append(dst, pos+1)
	}

	return dst
}

func direction(width, from, to int) Move {
	switch to - from {
	case -width:
		return Up
	case width:
		return Down
	case -1:
		return Left
	default:
		return Right
	}
}

package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pagesearch"
)

func board(t *testing.T, width int, tiles ...byte) *Board {
	t.Helper()

	b, err := NewBoard(NewPool(), width, tiles)
	require.NoError(t, err)

	return b
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		width int
		tiles []byte
		want  error
	}{
		{"Goal3", 3, Goal(3), nil},
		{"Goal4", 4, Goal(4), nil},
		{"TooSmall", 1, []byte{0}, ErrInvalidWidth},
		{"TooLarge", 9, make([]byte, 81), ErrInvalidWidth},
		{"WrongCount", 3, []byte{1, 2, 3, 0}, ErrInvalidTiles},
		{"Repeated", 2, []byte{1, 1, 2, 0}, ErrInvalidTiles},
		{"OutOfRange", 2, []byte{1, 2, 4, 0}, ErrInvalidTiles},
		{"SwappedPair3", 3, []byte{2, 1, 3, 4, 5, 6, 7, 8, 0}, ErrUnsolvable},
		{"SwappedPair4", 4, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 15, 14, 0}, ErrUnsolvable},
		{"BlankMovedUp4", 4, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 0, 13, 14, 15, 12}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.width, tt.tiles)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse(t *testing.T) {
	width, tiles, err := Parse("1 2 3\n4 5 6\n7 0 8")
	require.NoError(t, err)
	assert.Equal(t, 3, width)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 0, 8}, tiles)

	width, tiles, err = Parse("1,2,0,3")
	require.NoError(t, err)
	assert.Equal(t, 2, width)
	assert.Equal(t, []byte{1, 2, 0, 3}, tiles)

	_, _, err = Parse("1 2 3")
	assert.ErrorIs(t, err, ErrInvalidTiles)

	_, _, err = Parse("1 x 3 0")
	assert.ErrorIs(t, err, ErrInvalidTiles)

	_, _, err = Parse("")
	assert.ErrorIs(t, err, ErrInvalidWidth)
}

func TestScramble(t *testing.T) {
	for _, width := range []int{2, 3, 4, 5} {
		for seed := range uint64(20) {
			tiles := Scramble(width, 50, seed)
			require.NoError(t, Validate(width, tiles), "width %d seed %d", width, seed)
		}
	}

	assert.Equal(t, Scramble(4, 30, 7), Scramble(4, 30, 7))
	assert.Equal(t, Goal(3), Scramble(3, 0, 1))
}

func TestHeuristics(t *testing.T) {
	goal := board(t, 3, Goal(3)...)
	assert.Zero(t, Manhattan(goal))
	assert.Zero(t, Misplaced(goal))
	assert.Zero(t, LinearConflict(goal))
	assert.True(t, goal.Solved())

	// 1 2 3
	// 4 5 6
	// 0 7 8
	b := board(t, 3, 1, 2, 3, 4, 5, 6, 0, 7, 8)
	assert.Equal(t, 2, Manhattan(b))
	assert.Equal(t, 2, Misplaced(b))
	assert.Equal(t, 2, LinearConflict(b))
	assert.False(t, b.Solved())

	// 2 1 in the goal row of both tiles: one conflict.
	// 2 1 3
	// 4 5 6
	// 8 7 0
	c := &Board{}
	c.set(3, []byte{2, 1, 3, 4, 5, 6, 8, 7, 0})
	assert.Equal(t, 4, Manhattan(c))
	assert.Equal(t, 8, LinearConflict(c))

	hs, err := Heuristics("manhattan", "misplaced")
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "manhattan", hs[0].Name())
	assert.Equal(t, 2, hs[1].Score(b))

	_, err = Heuristics("euclid")
	assert.Error(t, err)

	assert.Equal(t, []string{"linear-conflict", "manhattan", "misplaced"}, HeuristicNames())
}

func TestSlide(t *testing.T) {
	p := NewPool()
	op := Slide()

	tests := []struct {
		name  string
		tiles []byte
		want  []Move
	}{
		{"Corner", Goal(3), []Move{Up, Left}},
		{"Edge", []byte{1, 2, 3, 4, 5, 6, 7, 0, 8}, []Move{Up, Left, Right}},
		{"Center", []byte{1, 2, 3, 4, 0, 5, 7, 8, 6}, []Move{Up, Down, Left, Right}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent, err := NewBoard(p, 3, tt.tiles)
			require.NoError(t, err)
			parent.Cost = 4

			out := op.Apply(parent, p, nil)
			require.Len(t, out, len(tt.want))

			for i, child := range out {
				assert.Equal(t, string(tt.want[i]), child.Operator)
				assert.Equal(t, 5, child.Cost)
				assert.Same(t, parent, child.Parent)

				replay := append([]byte(nil), parent.Tiles()...)
				require.True(t, Apply(3, replay, []Move{tt.want[i]}))
				assert.Equal(t, replay, child.Tiles())
				assert.NotEqual(t, parent.Hash(), child.Hash())
			}

			assert.Equal(t, tt.tiles, parent.Tiles(), "parent untouched")
		})
	}
}

func TestApply(t *testing.T) {
	tiles := Goal(3)
	assert.False(t, Apply(3, tiles, []Move{Down}))
	assert.False(t, Apply(3, Goal(3), []Move{"sideways"}))

	tiles = Goal(3)
	require.True(t, Apply(3, tiles, []Move{Up, Left, Down, Right}))
	assert.Equal(t, []byte{1, 2, 3, 4, 8, 5, 7, 6, 0}, tiles)
}

func TestBoard_String(t *testing.T) {
	b := board(t, 4, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 0, 15)
	assert.Equal(t, " 1  2  3  4\n 5  6  7  8\n 9 10 11 12\n13 14 .. 15", b.String())
}

func TestSolve(t *testing.T) {
	for _, workers := range []int{1, 2, 4} {
		for seed := range uint64(5) {
			width := 3
			initial := Scramble(width, 40, seed)

			p := NewPool()
			hs, err := Heuristics("manhattan", "linear-conflict")
			require.NoError(t, err)

			opts := func(o *pagesearch.Options[*Board]) {
				o.Operators = []pagesearch.Operator[*Board]{Slide()}
				o.Heuristics = hs
				o.Pool = p
				o.PathTracking = true
				o.Workers = workers
			}

			var eng *pagesearch.Engine[*Board]
			if workers == 1 {
				eng, err = pagesearch.New(opts)
			} else {
				eng, err = pagesearch.NewConcurrent(opts)
			}
			require.NoError(t, err)

			start, err := NewBoard(p, width, initial)
			require.NoError(t, err)

			goal, ok := eng.Start(t.Context(), start)
			require.True(t, ok, "workers %d seed %d", workers, seed)
			assert.True(t, goal.Solved())

			path, err := eng.Path(goal)
			require.NoError(t, err)

			moves := Moves(path)
			assert.Len(t, moves, goal.Cost)

			replay := append([]byte(nil), initial...)
			require.True(t, Apply(width, replay, moves))
			assert.Equal(t, Goal(width), replay)
		}
	}
}

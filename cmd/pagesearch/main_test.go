package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pagesearch/internal/puzzle"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
puzzle:
  width: 4
  scramble: 25
  seed: 9
search:
  fan_out: 8
  workers: 4
  heuristics: [manhattan, misplaced]
  time_budget: 2s
  stats: true
log:
  level: debug
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Puzzle.Width)
	assert.Equal(t, 25, cfg.Puzzle.Scramble)
	assert.Equal(t, uint64(9), cfg.Puzzle.Seed)
	assert.Equal(t, 8, cfg.Search.FanOut)
	assert.Equal(t, 4, cfg.Search.Workers)
	assert.Equal(t, []string{"manhattan", "misplaced"}, cfg.Search.Heuristics)
	assert.Equal(t, 2*time.Second, cfg.Search.TimeBudget)
	assert.True(t, cfg.Search.Stats)
	assert.True(t, cfg.Search.PathTracking, "defaults survive a partial file")
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"FanOut", "search:\n  fan_out: 2\n", "FanOut"},
		{"Workers", "search:\n  workers: 0\n", "Workers"},
		{"Heuristic", "search:\n  heuristics: [euclid]\n", "Heuristics"},
		{"NoHeuristics", "search:\n  heuristics: []\n", "Heuristics"},
		{"Width", "puzzle:\n  width: 12\n", "Width"},
		{"LogLevel", "log:\n  level: loud\n", "Level"},
		{"MetricsAddr", "metrics:\n  addr: not an address\n", "Addr"},
		{"TilesWidth", "puzzle:\n  width: 4\n  tiles: \"1 2 3 4 5 6 7 0 8\"\n", "width 3 board"},
		{"TilesUnsolvable", "puzzle:\n  tiles: \"2 1 3 4 5 6 7 8 0\"\n", puzzle.ErrUnsolvable.Error()},
		{"Syntax", "search: [", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSolveCommand(t *testing.T) {
	t.Run("Tiles", func(t *testing.T) {
		out, err := execute(t, "solve", "--tiles", "1 2 3 4 5 6 0 7 8")
		require.NoError(t, err)

		assert.Contains(t, out, "solved in 2 moves")
		assert.Contains(t, out, "moves: right right")
	})

	t.Run("ScrambleConcurrent", func(t *testing.T) {
		out, err := execute(t, "solve", "--scramble", "30", "--seed", "3", "--workers", "4", "--heuristics", "manhattan,misplaced")
		require.NoError(t, err)
		assert.Contains(t, out, "solved in")
	})

	t.Run("ConfigWithOverride", func(t *testing.T) {
		path := writeConfig(t, "puzzle:\n  width: 2\n  scramble: 10\nsearch:\n  workers: 2\n")

		out, err := execute(t, "solve", "--config", path, "--path=false")
		require.NoError(t, err)
		assert.Contains(t, out, "solved in")
		assert.NotContains(t, out, "moves:")
	})

	t.Run("Budget", func(t *testing.T) {
		out, err := execute(t, "solve", "--width", "4", "--scramble", "200", "--seed", "5", "--max-expanded", "1")
		assert.ErrorIs(t, err, errNoSolution)
		assert.Contains(t, out, "closest board")
	})

	t.Run("InvalidFlag", func(t *testing.T) {
		_, err := execute(t, "solve", "--workers", "0")
		assert.ErrorContains(t, err, "invalid config")
	})
}

func TestScrambleCommand(t *testing.T) {
	out, err := execute(t, "scramble", "--width", "3", "--moves", "20", "--seed", "4")
	require.NoError(t, err)

	width, tiles, err := puzzle.Parse(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, 3, width)
	assert.Equal(t, puzzle.Scramble(3, 20, 4), tiles)
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	c.RecordExpansion(4, 1, time.Millisecond)
	c.RecordExpansion(2, 2, time.Millisecond)
	c.RecordRun(2, true, time.Second)
	c.RecordRun(7, false, time.Second)
	c.RecordFrontier(12)

	assert.InDelta(t, 2, testutil.ToFloat64(c.expansions), 0)
	assert.InDelta(t, 6, testutil.ToFloat64(c.generated), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(c.duplicates), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.runs.WithLabelValues("true")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.runs.WithLabelValues("false")), 0)
	assert.InDelta(t, 12, testutil.ToFloat64(c.frontierSize), 0)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
}

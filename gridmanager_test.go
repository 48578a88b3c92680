// FILE: lixenwraith/copoco/gridmanager_test.go
package copoco

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGridManagerStepping tests cursor movement and exhaustion
func TestGridManagerStepping(t *testing.T) {
	gm, err := NewGridManager(OrderedMapping(canonicalGrid()), Mapping(nil))
	require.NoError(t, err)

	assert.Equal(t, 27, gm.Len())
	assert.Equal(t, 0, gm.Position())
	assert.Equal(t, 27, gm.Remaining())

	first, err := gm.Next()
	require.NoError(t, err)
	c, _ := first.Get("a.b.c")
	b2, _ := first.Get("a.b2")
	a2, _ := first.Get("a2")
	assert.Equal(t, []any{int64(1), int64(4), int64(9)}, []any{c, b2, a2})

	steps := 1
	var last *ConfigManager
	for {
		cm, err := gm.Next()
		if err != nil {
			assert.ErrorIs(t, err, ErrGridExhausted)
			break
		}
		last = cm
		steps++
	}
	assert.Equal(t, 27, steps)
	assert.Equal(t, 27, gm.Position())
	assert.Equal(t, 0, gm.Remaining())

	c, _ = last.Get("a.b.c")
	b2, _ = last.Get("a.b2")
	a2, _ = last.Get("a2")
	assert.Equal(t, []any{int64(3), int64(6), int64(7)}, []any{c, b2, a2})

	t.Run("ExhaustedStaysExhausted", func(t *testing.T) {
		_, err := gm.Next()
		assert.ErrorIs(t, err, ErrGridExhausted)
		assert.Equal(t, 27, gm.Position())
	})

	t.Run("Reset", func(t *testing.T) {
		gm.Reset()
		assert.Equal(t, 0, gm.Position())
		again, err := gm.Next()
		require.NoError(t, err)
		assert.True(t, first.Map().Equal(again.Map()))
	})

	t.Run("AtDoesNotMoveCursor", func(t *testing.T) {
		gm.Reset()
		cm, err := gm.At(26)
		require.NoError(t, err)
		assert.True(t, last.Map().Equal(cm.Map()))
		assert.Equal(t, 0, gm.Position())

		_, err = gm.At(27)
		assert.ErrorIs(t, err, ErrGridExhausted)
	})
}

// TestGridManagerLength tests that the length matches the produced configurations
func TestGridManagerLength(t *testing.T) {
	tests := []struct {
		name string
		grid map[string]any
		want int
	}{
		{"Empty", map[string]any{}, 1},
		{"ConstantsOnly", map[string]any{"lr": 0.1}, 1},
		{"SingleAxis", map[string]any{"lr": []any{0.1, 0.01}}, 2},
		{"NestedAxes", map[string]any{"model": map[string]any{"depth": []any{1, 2, 3}}, "lr": []any{0.1, 0.01}}, 6},
		{"EmptyAxis", map[string]any{"lr": []any{}, "seed": []any{1, 2}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gm, err := NewGridManager(Mapping(tt.grid), Mapping(map[string]any{"seed": 7}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, gm.Len())

			count := 0
			for range gm.All() {
				count++
			}
			assert.Equal(t, tt.want, count)
		})
	}

	t.Run("EmptyGridYieldsTemplate", func(t *testing.T) {
		gm, err := NewGridManager(Mapping(map[string]any{}), Mapping(map[string]any{"seed": 7}))
		require.NoError(t, err)
		cm, err := gm.Next()
		require.NoError(t, err)
		seed, _ := cm.Get("seed")
		assert.Equal(t, int64(7), seed)
		_, err = gm.Next()
		assert.ErrorIs(t, err, ErrGridExhausted)
	})
}

// TestGridManagerAxisOrder tests that axes follow the key order of the grid source
func TestGridManagerAxisOrder(t *testing.T) {
	axisNames := func(gm *GridManager) []string {
		var names []string
		for _, axis := range gm.Axes() {
			names = append(names, axis.Name())
		}
		return names
	}

	t.Run("MappingSortsKeys", func(t *testing.T) {
		gm, err := NewGridManager(Mapping(map[string]any{"b": []any{1, 2}, "a": []any{3, 4}}))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, axisNames(gm))
	})

	t.Run("OrderedMappingKeepsCallerOrder", func(t *testing.T) {
		grid := NewMap()
		grid.Set("b", []any{1, 2})
		grid.Set("a", []any{3, 4})
		gm, err := NewGridManager(OrderedMapping(grid))
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, axisNames(gm))

		// Last axis varies fastest
		second, err := gm.At(1)
		require.NoError(t, err)
		a, _ := second.Get("a")
		b, _ := second.Get("b")
		assert.Equal(t, []any{int64(4), int64(1)}, []any{a, b})
	})
}

// TestGridManagerFixtures tests grid, config and template files together
func TestGridManagerFixtures(t *testing.T) {
	gm, err := NewGridManager(Path(gridFixture), Path(configFixture), Path(templateFixture))
	require.NoError(t, err)
	assert.Equal(t, 12, gm.Len())

	axes := gm.Axes()
	require.Len(t, axes, 3)
	assert.Equal(t, "jobs.build.docker.image", axes[0].Name())
	assert.Equal(t, "jobs.test.docker.image", axes[1].Name())
	assert.Equal(t, "jobs.test.parallelism", axes[2].Name())

	var last *ConfigManager
	for _, cm := range gm.All() {
		last = cm
	}
	require.NotNil(t, last)

	cfg := last.Config()
	buildImage, _ := cfg.GetString("jobs.build.docker.image")
	testImage, _ := cfg.GetString("jobs.test.docker.image")
	parallelism, _ := cfg.GetInt("jobs.test.parallelism")
	assert.Equal(t, "hilthon", buildImage)
	assert.Equal(t, "hilthon", testImage)
	assert.Equal(t, 4, parallelism)

	// Baseline config below the grid, template below the baseline
	version, _ := cfg.GetString("jobs.build.docker.version")
	assert.Equal(t, "latest", version)
	run, _ := cfg.GetString("jobs.build.on_finish.run")
	assert.Equal(t, `echo "this is the end"`, run)
	workflow, _ := cfg.GetString("workflow.name")
	assert.Equal(t, "ci", workflow)

	t.Run("TwoSources", func(t *testing.T) {
		gm, err := NewGridManager(Path(gridFixture), Path(templateFixture))
		require.NoError(t, err)
		cm, err := gm.Next()
		require.NoError(t, err)
		version, _ := cm.Config().GetString("jobs.build.docker.version")
		assert.Equal(t, "22.04", version)
		parallelism, _ := cm.Config().GetInt("jobs.test.parallelism")
		assert.Equal(t, 2, parallelism)
	})

	t.Run("GridOnly", func(t *testing.T) {
		gm, err := NewGridManager(Path(gridFixture))
		require.NoError(t, err)
		cm, err := gm.Next()
		require.NoError(t, err)
		assert.Equal(t, []string{"jobs"}, cm.Config().Fields())
	})
}

// TestGridManagerTypeGuard tests source kind checks for every argument count
func TestGridManagerTypeGuard(t *testing.T) {
	path := Path(gridFixture)
	mapping := Mapping(map[string]any{"lr": []any{0.1}})

	tests := []struct {
		name    string
		sources []Source
	}{
		{"PathMapping", []Source{path, mapping}},
		{"MappingPath", []Source{mapping, path}},
		{"PathPathMapping", []Source{path, path, mapping}},
		{"PathMappingPath", []Source{path, mapping, path}},
		{"MappingPathPath", []Source{mapping, path, path}},
		{"MappingMappingPath", []Source{mapping, mapping, path}},
		{"MappingMappingZero", []Source{mapping, mapping, {}}},
		{"ZeroGrid", []Source{{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGridManager(tt.sources[0], tt.sources[1:]...)
			assert.ErrorIs(t, err, ErrTypeMismatch)
		})
	}

	t.Run("TooManySources", func(t *testing.T) {
		_, err := NewGridManager(mapping, mapping, mapping, mapping)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most 3 sources")
	})
}

// TestGridManagerConcurrentNext tests that concurrent callers never share a combination
func TestGridManagerConcurrentNext(t *testing.T) {
	gm, err := NewGridManager(OrderedMapping(canonicalGrid()), Mapping(nil))
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen = make(map[string]int)
		wg   sync.WaitGroup
	)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				cm, err := gm.Next()
				if err != nil {
					return
				}
				mu.Lock()
				seen[cm.Config().String()]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 27)
	for key, n := range seen {
		assert.Equal(t, 1, n, key)
	}
}

// TestGridManagerLogging tests the debug traces of expansion and stepping
func TestGridManagerLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	gm, err := NewBuilder().
		WithGrid(OrderedMapping(canonicalGrid())).
		WithLogger(logger).
		Build()
	require.NoError(t, err)

	_, err = gm.Next()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, `msg="grid expanded" axes=3 combinations=27`)
	assert.Contains(t, output, `msg="grid step" position=0 total=27`)
	assert.Equal(t, 2, strings.Count(output, "level=DEBUG"))
}

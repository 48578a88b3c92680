// FILE: lixenwraith/copoco/gridmanager.go
package copoco

import (
	"fmt"
	"iter"
	"log/slog"
	"sync"
)

// GridManager steps through the combinations of a grid specification, producing one
// ConfigManager per combination. Each configuration is the grid combination merged
// over the baseline config, merged over the template.
type GridManager struct {
	mu       sync.Mutex
	grid     *Grid
	baseline *Map // baseline config merged onto the template
	cursor   int
	tagName  string
	logger   *slog.Logger
}

// NewGridManager creates a grid manager from one to three sources:
//
//	NewGridManager(grid)                   // no baseline, empty template
//	NewGridManager(grid, template)         // empty baseline config
//	NewGridManager(grid, config, template) // baseline config over template
//
// All sources must be of the same kind, otherwise ErrTypeMismatch is returned
// before anything is loaded.
//
// Combination order follows the key order of the grid: document order for a path,
// caller order for OrderedMapping. Mapping takes a plain Go map, which has no order,
// so its axes are walked in sorted key order.
func NewGridManager(grid Source, sources ...Source) (*GridManager, error) {
	if len(sources) > 2 {
		return nil, fmt.Errorf("grid manager takes at most 3 sources, got %d", len(sources)+1)
	}
	if err := checkHomogeneous(append([]Source{grid}, sources...)...); err != nil {
		return nil, err
	}

	config, template := emptySource(), emptySource()
	switch len(sources) {
	case 1:
		template = sources[0]
	case 2:
		config, template = sources[0], sources[1]
	}
	return newGridManager(grid, config, template, DefaultTagName, nil)
}

func newGridManager(grid, config, template Source, tagName string, logger *slog.Logger) (*GridManager, error) {
	maps, err := loadAll(grid, config, template)
	if err != nil {
		return nil, err
	}
	expanded, err := Expand(maps[0])
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	gm := &GridManager{
		grid:     expanded,
		baseline: Merge(maps[1], maps[2]),
		tagName:  tagName,
		logger:   logger,
	}
	gm.logger.Debug("grid expanded", "axes", len(expanded.axes), "combinations", expanded.Len())
	return gm, nil
}

func emptySource() Source {
	return Source{kind: KindMapping, data: NewMap()}
}

// Len returns the total number of combinations.
func (gm *GridManager) Len() int {
	return gm.grid.Len()
}

// Axes returns the varying leaves of the grid in traversal order.
func (gm *GridManager) Axes() []Axis {
	return gm.grid.Axes()
}

// Next returns the configuration for the combination at the cursor and advances the
// cursor by one. After the last combination it returns ErrGridExhausted and the
// cursor stays put.
func (gm *GridManager) Next() (*ConfigManager, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if gm.cursor >= gm.grid.Len() {
		return nil, fmt.Errorf("%w: all %d combinations produced", ErrGridExhausted, gm.grid.Len())
	}
	cm, err := gm.at(gm.cursor)
	if err != nil {
		return nil, err
	}
	gm.logger.Debug("grid step", "position", gm.cursor, "total", gm.grid.Len())
	gm.cursor++
	return cm, nil
}

// Position returns the number of combinations produced by Next so far.
func (gm *GridManager) Position() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.cursor
}

// Remaining returns the number of combinations Next has not produced yet.
func (gm *GridManager) Remaining() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.grid.Len() - gm.cursor
}

// Reset moves the cursor back to the first combination.
func (gm *GridManager) Reset() {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.cursor = 0
}

// At returns the configuration for combination i without moving the cursor.
func (gm *GridManager) At(i int) (*ConfigManager, error) {
	return gm.at(i)
}

// All iterates over every configuration in order, independently of the cursor.
func (gm *GridManager) All() iter.Seq2[int, *ConfigManager] {
	return func(yield func(int, *ConfigManager) bool) {
		for i := 0; i < gm.grid.Len(); i++ {
			cm, err := gm.at(i)
			if err != nil || !yield(i, cm) {
				return
			}
		}
	}
}

func (gm *GridManager) at(i int) (*ConfigManager, error) {
	overlay, err := gm.grid.At(i)
	if err != nil {
		return nil, err
	}
	return newConfigManager(Merge(overlay, gm.baseline), gm.tagName), nil
}

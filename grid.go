// FILE: lixenwraith/copoco/grid.go
package copoco

import (
	"fmt"
	"iter"
	"math"
)

// Axis is one varying leaf of a grid specification: the path to the leaf and the
// values it takes.
type Axis struct {
	Path   []string
	Values []any
}

// Name returns the axis path in dot notation.
func (a Axis) Name() string {
	return joinPath(a.Path)
}

// Len returns the number of values on the axis.
func (a Axis) Len() int {
	return len(a.Values)
}

// Grid is the expansion of a grid specification: the cartesian product of all its
// sequence-valued leaves, with every other leaf held constant.
type Grid struct {
	spec  *Map
	axes  []Axis
	total int
}

// Expand walks spec in key order and turns every sequence-valued leaf into an axis.
// Combinations are ordered like nested loops: the first axis found is the outermost
// loop, the last axis found changes fastest.
func Expand(spec *Map) (*Grid, error) {
	g := &Grid{spec: spec.Clone()}

	var walk func(prefix []string, node *Map)
	walk = func(prefix []string, node *Map) {
		for _, key := range node.Keys() {
			value, _ := node.Get(key)
			path := append(append([]string(nil), prefix...), key)
			switch v := value.(type) {
			case *Map:
				walk(path, v)
			case []any:
				g.axes = append(g.axes, Axis{Path: path, Values: v})
			}
		}
	}
	walk(nil, g.spec)

	g.total = 1
	for _, axis := range g.axes {
		n := axis.Len()
		if n == 0 {
			g.total = 0
			break
		}
		if g.total > math.MaxInt/n {
			return nil, fmt.Errorf("%w: combination count overflows at axis %s", ErrGridTooLarge, axis.Name())
		}
		g.total *= n
	}
	return g, nil
}

// Len returns the number of combinations: the product of all axis sizes,
// 1 for a grid without axes.
func (g *Grid) Len() int {
	return g.total
}

// Axes returns the axes in traversal order.
func (g *Grid) Axes() []Axis {
	axes := make([]Axis, len(g.axes))
	for i, axis := range g.axes {
		axes[i] = Axis{
			Path:   append([]string(nil), axis.Path...),
			Values: cloneValue(axis.Values).([]any),
		}
	}
	return axes
}

// Indices decodes combination i into the value index selected on each axis.
func (g *Grid) Indices(i int) ([]int, error) {
	if i < 0 || i >= g.total {
		return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrGridExhausted, i, g.total)
	}
	indices := make([]int, len(g.axes))
	// Mixed-radix decode, last axis is the least significant digit
	for j := len(g.axes) - 1; j >= 0; j-- {
		n := g.axes[j].Len()
		indices[j] = i % n
		i /= n
	}
	return indices, nil
}

// At returns combination i as a full mapping with every axis replaced by its
// selected value. Each call returns a new, independent mapping.
func (g *Grid) At(i int) (*Map, error) {
	indices, err := g.Indices(i)
	if err != nil {
		return nil, err
	}
	combination := g.spec.Clone()
	for j, axis := range g.axes {
		setAtPath(combination, axis.Path, cloneValue(axis.Values[indices[j]]))
	}
	return combination, nil
}

// All iterates over every combination in order.
func (g *Grid) All() iter.Seq2[int, *Map] {
	return func(yield func(int, *Map) bool) {
		for i := 0; i < g.total; i++ {
			combination, err := g.At(i)
			if err != nil || !yield(i, combination) {
				return
			}
		}
	}
}

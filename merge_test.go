// FILE: lixenwraith/copoco/merge_test.go
package copoco

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMerge tests the override/template precedence rules
func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]any
		template map[string]any
		expected map[string]any
	}{
		{
			name:     "EmptyInputs",
			override: nil,
			template: nil,
			expected: map[string]any{},
		},
		{
			name:     "TemplateOnly",
			override: nil,
			template: map[string]any{"a": 1},
			expected: map[string]any{"a": int64(1)},
		},
		{
			name:     "OverrideOnly",
			override: map[string]any{"a": 1},
			template: nil,
			expected: map[string]any{"a": int64(1)},
		},
		{
			name:     "DisjointKeys",
			override: map[string]any{"a": 1},
			template: map[string]any{"b": 2},
			expected: map[string]any{"a": int64(1), "b": int64(2)},
		},
		{
			name:     "OverrideWinsOnScalars",
			override: map[string]any{"a": 1},
			template: map[string]any{"a": "template_value"},
			expected: map[string]any{"a": int64(1)},
		},
		{
			name: "NestedMapsMerge",
			override: map[string]any{
				"editor": map[string]any{"insertSpaces": true},
			},
			template: map[string]any{
				"editor": map[string]any{"tabSize": 4},
			},
			expected: map[string]any{
				"editor": map[string]any{"tabSize": int64(4), "insertSpaces": true},
			},
		},
		{
			name:     "OverrideMapReplacesTemplateScalar",
			override: map[string]any{"a": map[string]any{"x": 1}},
			template: map[string]any{"a": 5},
			expected: map[string]any{"a": map[string]any{"x": int64(1)}},
		},
		{
			name:     "OverrideScalarReplacesTemplateMap",
			override: map[string]any{"a": 5},
			template: map[string]any{"a": map[string]any{"x": 1}},
			expected: map[string]any{"a": int64(5)},
		},
		{
			name:     "SequencesAreReplacedNotMerged",
			override: map[string]any{"steps": []any{"lint"}},
			template: map[string]any{"steps": []any{"checkout", "build"}},
			expected: map[string]any{"steps": []any{"lint"}},
		},
		{
			name:     "NilOverrideValueWins",
			override: map[string]any{"a": nil},
			template: map[string]any{"a": 1},
			expected: map[string]any{"a": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(MapOf(tt.override), MapOf(tt.template))
			if diff := cmp.Diff(tt.expected, got.ToMap()); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestMergePrecedenceProperty checks merge(a,b)[k] == a[k] for keys scalar in both
func TestMergePrecedenceProperty(t *testing.T) {
	a, b := NewMap(), NewMap()
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("key_%d", i)
		a.Set(key, i)
		b.Set(key, fmt.Sprintf("template_%d", i))
	}

	merged := Merge(a, b)
	for _, key := range a.Keys() {
		want, _ := a.Get(key)
		got, _ := merged.Get(key)
		assert.Equal(t, want, got, "key %s", key)
	}
}

// TestMergeTotalityDeep checks that template-only keys survive at every depth
func TestMergeTotalityDeep(t *testing.T) {
	// Build a five level deep pair of configs where each level has
	// a shared key, an override-only key and a template-only key
	override, template := NewMap(), NewMap()
	o, tp := override, template
	for depth := 0; depth < 5; depth++ {
		o.Set("shared", fmt.Sprintf("override_%d", depth))
		tp.Set("shared", fmt.Sprintf("template_%d", depth))
		o.Set(fmt.Sprintf("override_only_%d", depth), depth)
		tp.Set(fmt.Sprintf("template_only_%d", depth), depth)

		nextO, nextT := NewMap(), NewMap()
		o.Set("child", nextO)
		tp.Set("child", nextT)
		o, tp = nextO, nextT
	}

	merged := Merge(override, template)

	path := ""
	for depth := 0; depth < 5; depth++ {
		val, exists := merged.Lookup(path + fmt.Sprintf("template_only_%d", depth))
		assert.True(t, exists, "depth %d", depth)
		assert.Equal(t, int64(depth), val)

		val, exists = merged.Lookup(path + fmt.Sprintf("override_only_%d", depth))
		assert.True(t, exists, "depth %d", depth)
		assert.Equal(t, int64(depth), val)

		val, _ = merged.Lookup(path + "shared")
		assert.Equal(t, fmt.Sprintf("override_%d", depth), val)

		path += "child."
	}
}

// TestMergeOrder tests that template order comes first, then override-only keys
func TestMergeOrder(t *testing.T) {
	override := NewMap()
	override.Set("z_new", 1)
	override.Set("b", 2)
	override.Set("a_new", 3)

	template := NewMap()
	template.Set("c", 1)
	template.Set("b", 1)
	template.Set("a", 1)

	merged := Merge(override, template)
	assert.Equal(t, []string{"c", "b", "a", "z_new", "a_new"}, merged.Keys())
}

// TestMergePurity tests that inputs are neither modified nor aliased
func TestMergePurity(t *testing.T) {
	override := MapOf(map[string]any{
		"nested": map[string]any{"x": 1},
		"list":   []any{1, 2},
	})
	template := MapOf(map[string]any{
		"nested":   map[string]any{"y": 2},
		"template": map[string]any{"z": 3},
	})
	overrideBefore := override.Clone()
	templateBefore := template.Clone()

	merged := Merge(override, template)
	require.True(t, override.Equal(overrideBefore))
	require.True(t, template.Equal(templateBefore))

	// Mutating the result must not leak back into the inputs
	sub, _ := merged.Get("template")
	sub.(*Map).Set("z", 99)
	list, _ := merged.Get("list")
	list.([]any)[0] = "changed"

	assert.True(t, override.Equal(overrideBefore))
	assert.True(t, template.Equal(templateBefore))

	// Same inputs, same output
	assert.True(t, Merge(override, template).Equal(Merge(override, template)))
}

// TestMergeAll tests multi-layer precedence
func TestMergeAll(t *testing.T) {
	grid := MapOf(map[string]any{"lr": 0.1})
	config := MapOf(map[string]any{"lr": 0.01, "epochs": 10})
	template := MapOf(map[string]any{"lr": 0.001, "epochs": 1, "seed": 7})

	merged := MergeAll(grid, config, template)
	assert.Equal(t, map[string]any{
		"lr":     0.1,
		"epochs": int64(10),
		"seed":   int64(7),
	}, merged.ToMap())

	assert.True(t, MergeAll(grid, config, template).Equal(Merge(grid, Merge(config, template))))
	assert.Equal(t, 0, MergeAll().Len())
}

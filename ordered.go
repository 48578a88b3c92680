// FILE: lixenwraith/copoco/ordered.go
package copoco

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Map is a nested mapping with string keys that remembers insertion order.
// Values are scalars, nested *Map values, or []any sequences.
// The zero value is an empty map ready to use.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates an empty ordered map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// MapOf converts a plain Go map into a *Map.
// Go maps carry no order, so keys are inserted in sorted order at every level.
func MapOf(data map[string]any) *Map {
	m := NewMap()
	for _, key := range sortedKeys(data) {
		m.Set(key, data[key])
	}
	return m
}

// Set stores value under key. A new key is appended to the key order,
// an existing key keeps its position. The value is normalized first.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = normalize(value)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	val, exists := m.values[key]
	return val, exists
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, exists := m.Get(key)
	return exists
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Lookup returns the value at a dot-separated path, descending through nested maps.
func (m *Map) Lookup(path string) (any, bool) {
	if path == "" {
		return m, m != nil
	}
	current := any(m)
	for _, segment := range strings.Split(path, ".") {
		currentMap, ok := current.(*Map)
		if !ok {
			return nil, false
		}
		value, exists := currentMap.Get(segment)
		if !exists {
			return nil, false
		}
		current = value
	}
	return current, true
}

// Clone returns a deep copy. Nested maps and sequences are copied, scalars are shared.
func (m *Map) Clone() *Map {
	if m == nil {
		return NewMap()
	}
	clone := &Map{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]any, len(m.values)),
	}
	copy(clone.keys, m.keys)
	for key, value := range m.values {
		clone.values[key] = cloneValue(value)
	}
	return clone
}

// ToMap converts the map into plain map[string]any values, recursively.
// Sequences become []any with their map elements converted as well.
func (m *Map) ToMap() map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m.keys))
	for _, key := range m.keys {
		out[key] = plainValue(m.values[key])
	}
	return out
}

// Equal reports whether both maps hold the same keys and deeply equal values.
// Key order is not compared.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for _, key := range m.Keys() {
		otherVal, exists := other.Get(key)
		if !exists {
			return false
		}
		val, _ := m.Get(key)
		if !valuesEqual(val, otherVal) {
			return false
		}
	}
	return true
}

// cloneValue creates a deep copy of a normalized value.
func cloneValue(val any) any {
	switch v := val.(type) {
	case *Map:
		return v.Clone()
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = cloneValue(elem)
		}
		return out
	default:
		return val
	}
}

func plainValue(val any) any {
	switch v := val.(type) {
	case *Map:
		return v.ToMap()
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = plainValue(elem)
		}
		return out
	default:
		return val
	}
}

func valuesEqual(a, b any) bool {
	switch va := a.(type) {
	case *Map:
		vb, ok := b.(*Map)
		return ok && va.Equal(vb)
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !valuesEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// normalize brings a value into the canonical shape stored in a *Map, so that data
// built in memory compares equal to the same data read back from a file.
// Integers become int64, floats become float64, string-keyed maps become *Map and
// slices become []any.
func normalize(value any) any {
	switch v := value.(type) {
	case nil, string, bool, int64, float64, *Map:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return normalizeUint(uint64(v))
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return normalizeUint(v)
	case float32:
		return float64(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(string(v), 10, 64); err == nil {
			return u
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		return MapOf(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = normalize(elem)
		}
		return out
	}

	// Typed maps and slices, e.g. map[string]string or []int
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return value
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		m := NewMap()
		for _, key := range keys {
			m.Set(key.String(), rv.MapIndex(key).Interface())
		}
		return m
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return value // raw bytes stay a scalar
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	}
	return value
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return u
	}
	return int64(u)
}

func sortedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// File: lixenwraith/copoco/helper.go
package copoco

import "strings"

// lastSegment returns the final segment of a dot-separated path.
func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// joinPath renders path segments in dot notation.
func joinPath(segments []string) string {
	return strings.Join(segments, ".")
}

// setAtPath sets value in m at the given segments, creating intermediate maps.
// A non-map value in the way is replaced by a new map.
func setAtPath(m *Map, segments []string, value any) {
	current := m
	for _, segment := range segments[:len(segments)-1] {
		next, exists := current.Get(segment)
		nextMap, isMap := next.(*Map)
		if !exists || !isMap {
			nextMap = NewMap()
			current.Set(segment, nextMap)
		}
		current = nextMap
	}
	current.Set(segments[len(segments)-1], value)
}

// Flatten converts a nested mapping into dot-notation paths in pre-order.
// Only non-map values are listed.
func Flatten(m *Map) (paths []string, values []any) {
	var walk func(prefix []string, node *Map)
	walk = func(prefix []string, node *Map) {
		for _, key := range node.Keys() {
			value, _ := node.Get(key)
			path := append(append([]string(nil), prefix...), key)
			if sub, isMap := value.(*Map); isMap {
				walk(path, sub)
				continue
			}
			paths = append(paths, joinPath(path))
			values = append(values, cloneValue(value))
		}
	}
	walk(nil, m)
	return paths, values
}

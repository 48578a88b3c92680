// FILE: lixenwraith/copoco/merge.go
package copoco

// Merge deep-merges override onto template and returns a new map.
//
// For every key in either input:
//   - present in one input only: that input's value is used
//   - a map in both inputs: the two maps are merged recursively
//   - anything else: the override value wins, whatever its shape
//
// Keys keep the template's order, with override-only keys appended in override order.
// Neither input is modified and the result shares no maps or sequences with them.
func Merge(override, template *Map) *Map {
	result := NewMap()

	for _, key := range template.Keys() {
		templateVal, _ := template.Get(key)
		overrideVal, inOverride := override.Get(key)
		if !inOverride {
			result.Set(key, cloneValue(templateVal))
			continue
		}

		overrideMap, overrideIsMap := overrideVal.(*Map)
		templateMap, templateIsMap := templateVal.(*Map)
		if overrideIsMap && templateIsMap {
			result.Set(key, Merge(overrideMap, templateMap))
		} else {
			result.Set(key, cloneValue(overrideVal))
		}
	}

	for _, key := range override.Keys() {
		if template.Has(key) {
			continue
		}
		overrideVal, _ := override.Get(key)
		result.Set(key, cloneValue(overrideVal))
	}

	return result
}

// MergeAll merges layers from highest to lowest precedence:
// MergeAll(a, b, c) is Merge(a, Merge(b, c)).
func MergeAll(layers ...*Map) *Map {
	result := NewMap()
	for i := len(layers) - 1; i >= 0; i-- {
		result = Merge(layers[i], result)
	}
	return result
}

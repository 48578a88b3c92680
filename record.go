// FILE: lixenwraith/copoco/record.go
package copoco

import (
	"fmt"
	"strings"
)

// Record is an immutable tree built from a nested mapping.
// Every nested map becomes a child Record, every other value is stored as-is.
// Fields are addressed by name or by dot-separated path ("jobs.build.docker.image").
type Record struct {
	name   string
	fields []string
	values map[string]any // scalar, []any or *Record
}

// Build creates a Record named name from m. The map is copied, later changes to m
// do not affect the record.
func Build(m *Map, name string) *Record {
	r := &Record{
		name:   name,
		fields: m.Keys(),
		values: make(map[string]any, m.Len()),
	}
	for _, key := range r.fields {
		value, _ := m.Get(key)
		if child, isMap := value.(*Map); isMap {
			r.values[key] = Build(child, key)
		} else {
			r.values[key] = cloneValue(value)
		}
	}
	return r
}

// FromMapping populates an empty record from m, which makes *Record a Recordable target.
func (r *Record) FromMapping(name string, m *Map) error {
	if r.values != nil {
		return fmt.Errorf("record %q is already built", r.name)
	}
	*r = *Build(m, name)
	return nil
}

// Name returns the record name: "Config" for the root of a ConfigManager,
// the field name for nested records.
func (r *Record) Name() string {
	return r.name
}

// Fields returns the field names in mapping order.
func (r *Record) Fields() []string {
	fields := make([]string, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Has reports whether the record has a direct field with the given name.
func (r *Record) Has(name string) bool {
	_, exists := r.values[name]
	return exists
}

// Field returns a direct field. Nested records are returned as *Record,
// sequences are returned as copies.
func (r *Record) Field(name string) (any, bool) {
	value, exists := r.values[name]
	if !exists {
		return nil, false
	}
	return cloneValue(value), true
}

// Get returns the value at a dot-separated path.
func (r *Record) Get(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := r
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		value, exists := current.values[segment]
		if !exists {
			return nil, false
		}
		if i == len(segments)-1 {
			return cloneValue(value), true
		}
		child, ok := value.(*Record)
		if !ok {
			return nil, false
		}
		current = child
	}
	return nil, false
}

// Sub returns the nested record at a dot-separated path.
// An empty path returns the record itself.
func (r *Record) Sub(path string) (*Record, bool) {
	if path == "" {
		return r, true
	}
	value, exists := r.Get(path)
	if !exists {
		return nil, false
	}
	child, ok := value.(*Record)
	return child, ok
}

// AsMap rebuilds the nested mapping the record was built from.
func (r *Record) AsMap() *Map {
	m := NewMap()
	for _, key := range r.fields {
		switch v := r.values[key].(type) {
		case *Record:
			m.Set(key, v.AsMap())
		default:
			m.Set(key, cloneValue(v))
		}
	}
	return m
}

// String renders the record as Name{field=value, ...}.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.name)
	b.WriteByte('{')
	for i, key := range r.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		switch v := r.values[key].(type) {
		case *Record:
			b.WriteString(v.String())
		case string:
			fmt.Fprintf(&b, "%s=%q", key, v)
		default:
			fmt.Fprintf(&b, "%s=%v", key, plainValue(v))
		}
	}
	b.WriteByte('}')
	return b.String()
}

// FILE: lixenwraith/copoco/source.go
package copoco

import (
	"fmt"
	"strings"
)

// SourceKind tells whether a Source refers to a file or carries a mapping in memory.
type SourceKind int

const (
	// KindNone is the kind of the zero Source; it is rejected by every constructor
	KindNone SourceKind = iota
	// KindPath is a filesystem path to a serialized mapping
	KindPath
	// KindMapping is an in-memory nested mapping
	KindMapping
)

func (k SourceKind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindMapping:
		return "mapping"
	default:
		return "none"
	}
}

// Source is one input layer: either a path or an in-memory mapping.
type Source struct {
	kind SourceKind
	path string
	data *Map
}

// Path returns a Source read from the file at path when it is loaded.
func Path(path string) Source {
	return Source{kind: KindPath, path: path}
}

// Mapping returns a Source holding data. Go maps carry no key order,
// so keys are taken in sorted order; use OrderedMapping when order matters.
func Mapping(data map[string]any) Source {
	return Source{kind: KindMapping, data: MapOf(data)}
}

// OrderedMapping returns a Source holding a copy of data.
func OrderedMapping(data *Map) Source {
	return Source{kind: KindMapping, data: data.Clone()}
}

// SourceOf converts a dynamic value into a Source: a string is a path,
// a map[string]any or *Map is a mapping, a Source is returned unchanged.
// Anything else fails with ErrTypeMismatch.
func SourceOf(v any) (Source, error) {
	switch val := v.(type) {
	case Source:
		return val, nil
	case string:
		return Path(val), nil
	case map[string]any:
		return Mapping(val), nil
	case *Map:
		if val == nil {
			break
		}
		return OrderedMapping(val), nil
	}
	return Source{}, fmt.Errorf("%w: unsupported source type %T, expected a path or a mapping", ErrTypeMismatch, v)
}

// Kind returns the source kind.
func (s Source) Kind() SourceKind {
	return s.kind
}

// Path returns the file path of a path source.
func (s Source) Path() string {
	return s.path
}

func (s Source) String() string {
	switch s.kind {
	case KindPath:
		return "path:" + s.path
	case KindMapping:
		return fmt.Sprintf("mapping(%d keys)", s.data.Len())
	default:
		return "none"
	}
}

// load returns the mapping of the source. Mapping sources return a fresh copy.
func (s Source) load() (*Map, error) {
	switch s.kind {
	case KindPath:
		return LoadFile(s.path)
	case KindMapping:
		return s.data.Clone(), nil
	default:
		return nil, fmt.Errorf("%w: cannot load a source with no kind", ErrTypeMismatch)
	}
}

// checkHomogeneous verifies that every source has a kind and that all kinds match.
func checkHomogeneous(sources ...Source) error {
	for i, src := range sources {
		if src.kind == KindNone {
			return fmt.Errorf("%w: source %d is neither a path nor a mapping", ErrTypeMismatch, i)
		}
		if src.kind != sources[0].kind {
			return fmt.Errorf("%w: sources must be all paths or all mappings, got %s", ErrTypeMismatch, describeKinds(sources))
		}
	}
	return nil
}

func describeKinds(sources []Source) string {
	kinds := make([]string, len(sources))
	for i, src := range sources {
		kinds[i] = src.kind.String()
	}
	return strings.Join(kinds, ", ")
}

// loadAll loads sources in order, stopping at the first failure.
func loadAll(sources ...Source) ([]*Map, error) {
	maps := make([]*Map, len(sources))
	for i, src := range sources {
		m, err := src.load()
		if err != nil {
			return nil, err
		}
		maps[i] = m
	}
	return maps, nil
}

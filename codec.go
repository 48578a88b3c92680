// FILE: lixenwraith/copoco/codec.go
package copoco

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a YAML mapping node, keeping the document's key order.
// Any previous content of m is discarded.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	m.keys, m.values = nil, make(map[string]any)
	for node.Kind == yaml.DocumentNode || node.Kind == yaml.AliasNode {
		if node.Kind == yaml.AliasNode {
			node = node.Alias
			continue
		}
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, got %s", node.Line, yamlKindName(node.Kind))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		// "<<: *anchor" pulls in keys that are not set explicitly
		if keyNode.Tag == "!!merge" {
			if err := m.mergeYAML(valueNode); err != nil {
				return err
			}
			continue
		}

		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}
		value, err := yamlValue(valueNode)
		if err != nil {
			return err
		}
		m.Set(keyNode.Value, value)
	}
	return nil
}

// mergeYAML applies a YAML merge key: a mapping or a sequence of mappings whose keys
// fill in anything not already present.
func (m *Map) mergeYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	sources := []*yaml.Node{node}
	if node.Kind == yaml.SequenceNode {
		sources = node.Content
	}
	for _, src := range sources {
		merged := NewMap()
		if err := merged.UnmarshalYAML(src); err != nil {
			return fmt.Errorf("invalid merge key value: %w", err)
		}
		for _, key := range merged.keys {
			if !m.Has(key) {
				m.Set(key, merged.values[key])
			}
		}
	}
	return nil
}

func yamlValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return yamlValue(node.Alias)
	case yaml.MappingNode:
		child := NewMap()
		if err := child.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return child, nil
	case yaml.SequenceNode:
		seq := make([]any, 0, len(node.Content))
		for _, elem := range node.Content {
			value, err := yamlValue(elem)
			if err != nil {
				return nil, err
			}
			seq = append(seq, value)
		}
		return seq, nil
	default:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return normalize(value), nil
	}
}

// MarshalYAML encodes the map as a YAML mapping node in key order.
func (m *Map) MarshalYAML() (any, error) {
	return yamlNode(m)
}

func yamlNode(value any) (*yaml.Node, error) {
	switch v := value.(type) {
	case *Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range v.Keys() {
			child, err := yamlNode(v.values[key])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				child,
			)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range v {
			child, err := yamlNode(elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case float64:
		// yaml.v3 writes 1.0 as "1", which reads back as an integer
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(v, ".inf", ".nan")}, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return node, nil
	}
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order.
func (m *Map) UnmarshalJSON(data []byte) error {
	decoded, err := decodeJSON(data)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

// MarshalJSON encodes the map as a JSON object in key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case *Map:
		buf.WriteByte('{')
		for i, key := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if !utf8.ValidString(key) {
				return fmt.Errorf("%w: key %q is not valid UTF-8 for JSON", ErrUnrepresentable, key)
			}
			keyData, _ := json.Marshal(key)
			buf.Write(keyData)
			buf.WriteByte(':')
			if err := writeJSON(buf, v.values[key]); err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%w: float %v in JSON", ErrUnrepresentable, v)
		}
		buf.WriteString(formatFloat(v, "", ""))
	case string:
		// encoding/json would replace invalid bytes with U+FFFD
		if !utf8.ValidString(v) {
			return fmt.Errorf("%w: string %q is not valid UTF-8 for JSON", ErrUnrepresentable, v)
		}
		data, _ := json.Marshal(v)
		buf.Write(data)
	case nil, bool, int64, uint64:
		data, _ := json.Marshal(v)
		buf.Write(data)
	default:
		return fmt.Errorf("%w: %T in JSON", ErrUnrepresentable, v)
	}
	return nil
}

// formatFloat renders f so that it always reads back as a float.
func formatFloat(f float64, inf, nan string) string {
	switch {
	case math.IsInf(f, 1):
		return inf
	case math.IsInf(f, -1):
		return "-" + inf
	case math.IsNaN(f):
		return nan
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func decodeJSON(data []byte) (*Map, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Preserve number precision

	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object at top level, got %v", tok)
	}
	m, err := jsonObject(decoder)
	if err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level JSON object")
	}
	return m, nil
}

// jsonObject reads object members up to and including the closing brace.
func jsonObject(decoder *json.Decoder) (*Map, error) {
	m := NewMap()
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		value, err := jsonValue(decoder)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		m.Set(key, value)
	}
	if _, err := decoder.Token(); err != nil { // closing '}'
		return nil, err
	}
	return m, nil
}

func jsonValue(decoder *json.Decoder) (any, error) {
	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	delim, isDelim := tok.(json.Delim)
	if !isDelim {
		return normalize(tok), nil
	}
	switch delim {
	case '{':
		return jsonObject(decoder)
	case '[':
		seq := make([]any, 0)
		for decoder.More() {
			elem, err := jsonValue(decoder)
			if err != nil {
				return nil, err
			}
			seq = append(seq, elem)
		}
		if _, err := decoder.Token(); err != nil { // closing ']'
			return nil, err
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// decodeTOML parses TOML into a *Map. BurntSushi/toml decodes into Go maps, so the
// document order is rebuilt from the key list in the decode metadata.
func decodeTOML(data []byte) (*Map, error) {
	raw := make(map[string]any)
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	m := NewMap()
	for _, key := range meta.Keys() {
		insertTOMLKey(m, raw, key)
	}
	// Keys the metadata did not list (e.g. inside inline tables) keep sorted order
	fillMissing(m, raw)
	return m, nil
}

func insertTOMLKey(m *Map, raw map[string]any, key toml.Key) {
	current := m
	currentRaw := raw
	for i, segment := range key {
		value, exists := currentRaw[segment]
		if !exists {
			return
		}
		subRaw, isTable := value.(map[string]any)

		if i == len(key)-1 {
			if !current.Has(segment) {
				if isTable {
					current.Set(segment, NewMap())
				} else {
					current.Set(segment, value)
				}
			}
			return
		}

		// Keys below arrays of tables are carried by the array value itself
		if !isTable {
			return
		}
		if !current.Has(segment) {
			current.Set(segment, NewMap()) // dotted key without a table header
		}
		child, _ := current.Get(segment)
		childMap, ok := child.(*Map)
		if !ok {
			return
		}
		current, currentRaw = childMap, subRaw
	}
}

func fillMissing(m *Map, raw map[string]any) {
	for _, key := range sortedKeys(raw) {
		value := raw[key]
		existing, exists := m.Get(key)
		if !exists {
			m.Set(key, value)
			continue
		}
		subMap, isMap := existing.(*Map)
		subRaw, isRaw := value.(map[string]any)
		if isMap && isRaw {
			fillMissing(subMap, subRaw)
		}
	}
}

func encodeTOML(m *Map) ([]byte, error) {
	if err := checkTOML(m, nil); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(m.ToMap()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// checkTOML rejects values the TOML encoder would drop or write in a form that does
// not decode back: nulls, integers above MaxInt64 and invalid UTF-8.
func checkTOML(value any, path []string) error {
	where := joinPath(path)
	if where == "" {
		where = "root"
	}
	switch v := value.(type) {
	case *Map:
		for _, key := range v.Keys() {
			if !utf8.ValidString(key) {
				return fmt.Errorf("%w: key %q at %s is not valid UTF-8 for TOML", ErrUnrepresentable, key, where)
			}
			child, _ := v.Get(key)
			if err := checkTOML(child, append(path, key)); err != nil {
				return err
			}
		}
	case []any:
		for i, elem := range v {
			if err := checkTOML(elem, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
	case nil:
		return fmt.Errorf("%w: null at %s, TOML has no null", ErrUnrepresentable, where)
	case string:
		if !utf8.ValidString(v) {
			return fmt.Errorf("%w: string at %s is not valid UTF-8 for TOML", ErrUnrepresentable, where)
		}
	case bool, int64, float64, time.Time:
	default:
		return fmt.Errorf("%w: %T at %s in TOML", ErrUnrepresentable, v, where)
	}
	return nil
}

func encodeYAML(m *Map) ([]byte, error) {
	node, err := yamlNode(m)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(node); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeYAML(data []byte) (*Map, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	m := NewMap()
	if root.Kind == 0 {
		return m, nil // empty document
	}
	if err := m.UnmarshalYAML(&root); err != nil {
		return nil, err
	}
	return m, nil
}

func yamlKindName(kind yaml.Kind) string {
	switch kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "node"
	}
}

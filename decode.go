// FILE: lixenwraith/copoco/decode.go
package copoco

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DefaultTagName is the struct tag used to match mapping keys to struct fields.
const DefaultTagName = "yaml"

// Recordable is implemented by structured record types that can be populated
// from a nested mapping. *Record implements it.
type Recordable interface {
	FromMapping(name string, m *Map) error
}

// BuildInto populates target from m. The target must be a structured record type:
// either a Recordable, or a non-nil pointer to a struct whose fields are matched by
// the "yaml" tag. Any other target fails with ErrUnsupportedTarget.
func BuildInto(target any, m *Map, name string) error {
	return buildInto(target, m, name, DefaultTagName)
}

func buildInto(target any, m *Map, name, tagName string) error {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return fmt.Errorf("%w: target %T must be a structured record type, got nil", ErrUnsupportedTarget, target)
	}

	if recordable, ok := target.(Recordable); ok {
		if err := recordable.FromMapping(name, m.Clone()); err != nil {
			return fmt.Errorf("failed to build record %q: %w", name, err)
		}
		return nil
	}

	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: target %T must be a structured record type (Recordable or struct pointer)", ErrUnsupportedTarget, target)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          tagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(m.ToMap()); err != nil {
		return fmt.Errorf("decode failed for record %q: %w", name, err)
	}
	return nil
}

// decodeHook returns the composite decode hook for all type conversions
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types
		stringParseHook(parseIP),
		stringParseHook(parseIPNet),
		stringParseHook(url.Parse),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringParseHook converts strings into T or *T using parse. The parser returns *T,
// matching net/url and net.ParseCIDR.
func stringParseHook[T any](parse func(string) (*T, error)) mapstructure.DecodeHookFunc {
	valueType := reflect.TypeOf((*T)(nil)).Elem()
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		if t != valueType && !(isPtr && t.Elem() == valueType) {
			return data, nil
		}

		parsed, err := parse(reflect.ValueOf(data).String())
		if err != nil {
			return nil, err
		}
		if isPtr {
			return parsed, nil
		}
		return *parsed, nil
	}
}

func parseIP(s string) (*net.IP, error) {
	if len(s) > 45 { // Max IPv6 length
		return nil, fmt.Errorf("invalid IP length: %d", len(s))
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address: %s", s)
	}
	return &ip, nil
}

func parseIPNet(s string) (*net.IPNet, error) {
	if len(s) > 49 { // Max IPv6 CIDR length
		return nil, fmt.Errorf("invalid CIDR length: %d", len(s))
	}
	_, ipnet, err := net.ParseCIDR(s)
	if err != nil {
		return nil, fmt.Errorf("invalid CIDR: %w", err)
	}
	return ipnet, nil
}

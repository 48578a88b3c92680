// FILE: lixenwraith/copoco/errors.go
package copoco

import "errors"

var (
	// ErrTypeMismatch is returned when sources passed to one constructor are not of the
	// same kind (all paths or all mappings), or a value is neither a path nor a mapping.
	ErrTypeMismatch = errors.New("source type mismatch")

	// ErrUnsupportedTarget is returned when a record is built into a target that is not
	// a structured record type.
	ErrUnsupportedTarget = errors.New("unsupported record target")

	// ErrGridExhausted is returned when a grid is stepped past its last combination
	// or indexed out of range.
	ErrGridExhausted = errors.New("grid exhausted")

	// ErrGridTooLarge is returned when the number of grid combinations overflows int.
	ErrGridTooLarge = errors.New("grid too large")

	// ErrConfigNotFound is returned when a source path does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrUnknownFormat is returned when the serialization format of a file cannot be
	// determined or is not supported.
	ErrUnknownFormat = errors.New("unknown configuration format")

	// ErrUnrepresentable is returned when a mapping holds a value the target format
	// cannot store without changing or dropping it.
	ErrUnrepresentable = errors.New("value not representable in format")
)

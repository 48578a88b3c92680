// File: lixenwraith/copoco/type.go
package copoco

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Record leaves hold the normalized value set of Map: nil, string, bool, int64,
// uint64 (only above MaxInt64), float64, plus what a decoder produced beyond that
// (time.Time from TOML and YAML, []byte). The accessors convert between those.

// leaf returns the value at path, failing when the path is missing or names a
// nested record or a sequence.
func (r *Record) leaf(path, want string) (any, error) {
	val, found := r.Get(path)
	if !found {
		return nil, fmt.Errorf("path not found: %s", path)
	}
	switch val.(type) {
	case *Record, []any:
		return nil, fmt.Errorf("path %s holds %T, not a %s", path, val, want)
	}
	return val, nil
}

// GetString returns the value at path as a string. Numbers, booleans, times and
// byte strings are formatted; nil reads as "".
func (r *Record) GetString(path string) (string, error) {
	val, err := r.leaf(path, "string")
	if err != nil {
		return "", err
	}

	switch v := val.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	}
	return "", fmt.Errorf("cannot convert type %T to string for path %s", val, path)
}

// GetInt64 returns the value at path as an int64. Floats are truncated, strings are
// parsed with base prefixes ("0x1F"), booleans read as 0 or 1.
func (r *Record) GetInt64(path string) (int64, error) {
	val, err := r.leaf(path, "number")
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case int64:
		return v, nil
	case uint64:
		return 0, fmt.Errorf("value %d at path %s overflows int64", v, path)
	case float64:
		if math.IsNaN(v) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("value %v at path %s is out of int64 range", v, path)
		}
		return int64(v), nil
	case string:
		i, perr := strconv.ParseInt(v, 0, 64)
		if perr == nil {
			return i, nil
		}
		if f, ferr := strconv.ParseFloat(v, 64); ferr == nil {
			return int64(f), nil
		}
		return 0, fmt.Errorf("cannot convert string %q to int64 for path %s: %w", v, path, perr)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case nil:
		return 0, fmt.Errorf("value for path %s is nil", path)
	}
	return 0, fmt.Errorf("cannot convert type %T to int64 for path %s", val, path)
}

// GetInt is GetInt64 narrowed to int.
func (r *Record) GetInt(path string) (int, error) {
	i, err := r.GetInt64(path)
	return int(i), err
}

// GetBool returns the value at path as a bool. Numbers read as non-zero; strings
// must be accepted by strconv.ParseBool.
func (r *Record) GetBool(path string) (bool, error) {
	val, err := r.leaf(path, "bool")
	if err != nil {
		return false, err
	}

	switch v := val.(type) {
	case bool:
		return v, nil
	case string:
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return false, fmt.Errorf("cannot convert string %q to bool for path %s: %w", v, path, perr)
		}
		return b, nil
	case int64:
		return v != 0, nil
	case uint64:
		return true, nil // never zero once normalized
	case float64:
		return v != 0, nil
	case nil:
		return false, fmt.Errorf("value for path %s is nil", path)
	}
	return false, fmt.Errorf("cannot convert type %T to bool for path %s", val, path)
}

// GetFloat64 returns the value at path as a float64.
func (r *Record) GetFloat64(path string) (float64, error) {
	val, err := r.leaf(path, "number")
	if err != nil {
		return 0, err
	}

	switch v := val.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return 0, fmt.Errorf("cannot convert string %q to float64 for path %s: %w", v, path, perr)
		}
		return f, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case nil:
		return 0, fmt.Errorf("value for path %s is nil", path)
	}
	return 0, fmt.Errorf("cannot convert type %T to float64 for path %s", val, path)
}

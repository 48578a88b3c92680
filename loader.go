// FILE: lixenwraith/copoco/loader.go
package copoco

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a serialization format for mapping files
type Format string

const (
	// FormatAuto detects the format from the file extension, then from content
	FormatAuto Format = ""
	// FormatYAML is the default format, used when saving to an unknown extension
	FormatYAML Format = "yaml"
	// FormatTOML is TOML v1
	FormatTOML Format = "toml"
	// FormatJSON is JSON with a top-level object
	FormatJSON Format = "json"
)

// MaxFileSize caps the size of a mapping file read by LoadFile.
const MaxFileSize = 10 * 1024 * 1024

// LoadFile reads the mapping file at path. The format is detected from the
// extension, falling back to content detection.
func LoadFile(path string) (*Map, error) {
	return LoadFileAs(path, FormatAuto)
}

// LoadFileAs reads the mapping file at path in the given format.
func LoadFileAs(path string, format Format) (*Map, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to open config file '%s': %w", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("config file '%s' exceeds maximum size %d bytes", path, MaxFileSize)
	}

	if format == FormatAuto {
		format = DetectFormat(path)
		if format == FormatAuto {
			format = detectFormatFromContent(data)
		}
	}

	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	return m, nil
}

// Parse decodes data in the given format into a mapping.
// The document root must be a mapping.
func Parse(data []byte, format Format) (*Map, error) {
	switch format {
	case FormatYAML:
		return decodeYAML(data)
	case FormatTOML:
		return decodeTOML(data)
	case FormatJSON:
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// DetectFormat determines the format from the file extension.
// It returns FormatAuto when the extension is not recognized.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) Format {
	// Try JSON first (strict format)
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON
	}

	// Try YAML (superset of JSON, so check after JSON)
	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return FormatYAML
	}

	// Try TOML last
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	return FormatAuto
}

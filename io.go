// File: lixenwraith/copoco/io.go
package copoco

import (
	"fmt"
	"os"
	"path/filepath"
)

// SaveFile writes m to path atomically. The format follows the file extension;
// unrecognized extensions are written as YAML.
func SaveFile(path string, m *Map) error {
	format := DetectFormat(path)
	if format == FormatAuto {
		format = FormatYAML
	}
	return SaveFileAs(path, m, format)
}

// SaveFileAs writes m to path atomically in the given format.
func SaveFileAs(path string, m *Map, format Format) error {
	data, err := Marshal(m, format)
	if err != nil {
		return fmt.Errorf("failed to marshal config data to %s: %w", format, err)
	}
	return atomicWriteFile(path, data)
}

// Marshal encodes m in the given format.
func Marshal(m *Map, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return encodeYAML(m)
	case FormatTOML:
		return encodeTOML(m)
	case FormatJSON:
		data, err := m.MarshalJSON()
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// atomicWriteFile writes data to a temporary file in the target directory and
// renames it over path, so readers never observe a partial file.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in '%s': %w", dir, err)
	}

	tempPath := tempFile.Name()
	removed := false
	defer func() {
		if !removed {
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temp file '%s': %w", tempPath, err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temp file '%s': %w", tempPath, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file '%s': %w", tempPath, err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on temp file '%s': %w", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file '%s' to '%s': %w", tempPath, path, err)
	}
	removed = true

	return nil
}

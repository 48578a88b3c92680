// File: lixenwraith/copoco/convenience.go
package copoco

import (
	"fmt"
	"io"
	"strings"
)

// Quick builds a ConfigManager from two dynamic values, each a path (string) or a
// mapping (map[string]any or *Map). Both must be of the same kind.
func Quick(override, template any) (*ConfigManager, error) {
	sources, err := sourcesOf(override, template)
	if err != nil {
		return nil, err
	}
	return NewConfigManager(sources[0], sources[1])
}

// MustQuick is like Quick but panics on error
func MustQuick(override, template any) *ConfigManager {
	cm, err := Quick(override, template)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cm
}

// QuickGrid builds a GridManager from one to three dynamic values, with the same
// argument rules as NewGridManager.
func QuickGrid(grid any, rest ...any) (*GridManager, error) {
	sources, err := sourcesOf(append([]any{grid}, rest...)...)
	if err != nil {
		return nil, err
	}
	return NewGridManager(sources[0], sources[1:]...)
}

func sourcesOf(values ...any) ([]Source, error) {
	sources := make([]Source, len(values))
	for i, v := range values {
		src, err := SourceOf(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		sources[i] = src
	}
	return sources, nil
}

// Dump writes the merged configuration to w in the given format
// (YAML when format is FormatAuto).
func (cm *ConfigManager) Dump(w io.Writer, format Format) error {
	if format == FormatAuto {
		format = FormatYAML
	}
	data, err := Marshal(cm.merged, format)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Debug returns every leaf of the configuration as "path = value" lines,
// in configuration order.
func (cm *ConfigManager) Debug() string {
	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	paths, values := Flatten(cm.merged)
	for i, path := range paths {
		fmt.Fprintf(&b, "  %s = %v\n", path, plainValue(values[i]))
	}
	return b.String()
}

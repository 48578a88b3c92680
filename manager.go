// FILE: lixenwraith/copoco/manager.go
package copoco

import "fmt"

// RootName is the name of the root record built by a ConfigManager.
const RootName = "Config"

// ConfigManager holds one merged configuration: an override layered onto a template.
// It is immutable after construction and safe for concurrent reads.
type ConfigManager struct {
	merged  *Map
	cfg     *Record
	tagName string
}

// NewConfigManager merges override onto template and builds the configuration record.
// Both sources must be of the same kind; a path and a mapping together fail with
// ErrTypeMismatch before anything is loaded.
func NewConfigManager(override, template Source) (*ConfigManager, error) {
	if err := checkHomogeneous(override, template); err != nil {
		return nil, err
	}
	maps, err := loadAll(override, template)
	if err != nil {
		return nil, err
	}
	return newConfigManager(Merge(maps[0], maps[1]), DefaultTagName), nil
}

// newConfigManager wraps an already merged mapping; the manager takes ownership of it.
func newConfigManager(merged *Map, tagName string) *ConfigManager {
	return &ConfigManager{
		merged:  merged,
		cfg:     Build(merged, RootName),
		tagName: tagName,
	}
}

// Config returns the configuration record.
func (cm *ConfigManager) Config() *Record {
	return cm.cfg
}

// Map returns a copy of the merged mapping.
func (cm *ConfigManager) Map() *Map {
	return cm.merged.Clone()
}

// Get returns the value at a dot-separated path of the configuration.
func (cm *ConfigManager) Get(path string) (any, bool) {
	return cm.cfg.Get(path)
}

// Save writes the merged mapping to path. Loading the file back yields a mapping
// equal to Map().
func (cm *ConfigManager) Save(path string) error {
	if err := SaveFile(path, cm.merged); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// Scan decodes the section at basePath (empty for the whole configuration)
// into target. The target must be a structured record type, see BuildInto.
func (cm *ConfigManager) Scan(basePath string, target any) error {
	section := cm.merged
	name := RootName
	if basePath != "" {
		value, exists := cm.merged.Lookup(basePath)
		if !exists {
			return fmt.Errorf("path not found: %s", basePath)
		}
		sub, ok := value.(*Map)
		if !ok {
			return fmt.Errorf("path %q refers to non-map value (type %T)", basePath, value)
		}
		section, name = sub, lastSegment(basePath)
	}
	return buildInto(target, section, name, cm.tagName)
}

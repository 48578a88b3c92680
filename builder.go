// File: lixenwraith/copoco/builder.go
package copoco

import (
	"errors"
	"fmt"
	"log/slog"
)

// Builder provides a fluent interface for building config and grid managers
type Builder struct {
	grid     *Source
	config   *Source
	template *Source
	tagName  string
	logger   *slog.Logger
	errs     []error
}

// NewBuilder creates a new builder
func NewBuilder() *Builder {
	return &Builder{
		tagName: DefaultTagName,
	}
}

// WithGrid sets the grid specification
func (b *Builder) WithGrid(src Source) *Builder {
	b.grid = &src
	return b
}

// WithConfig sets the baseline config layered over the template
func (b *Builder) WithConfig(src Source) *Builder {
	b.config = &src
	return b
}

// WithTemplate sets the template providing default values
func (b *Builder) WithTemplate(src Source) *Builder {
	b.template = &src
	return b
}

// WithValues sets the grid, config or template from dynamic values (see SourceOf).
// A nil value leaves the corresponding layer unset.
func (b *Builder) WithValues(grid, config, template any) *Builder {
	for _, layer := range []struct {
		name   string
		value  any
		target **Source
	}{
		{"grid", grid, &b.grid},
		{"config", config, &b.config},
		{"template", template, &b.template},
	} {
		if layer.value == nil {
			continue
		}
		src, err := SourceOf(layer.value)
		if err != nil {
			b.errs = append(b.errs, fmt.Errorf("%s: %w", layer.name, err))
			continue
		}
		*layer.target = &src
	}
	return b
}

// WithTagName sets the struct tag used by Scan
func (b *Builder) WithTagName(tagName string) *Builder {
	if tagName == "" {
		b.errs = append(b.errs, fmt.Errorf("tag name cannot be empty"))
		return b
	}
	b.tagName = tagName
	return b
}

// WithLogger sets the logger used for grid stepping traces
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build creates the GridManager. A grid source is required; unset config and
// template layers are empty mappings.
func (b *Builder) Build() (*GridManager, error) {
	if b.grid == nil {
		return nil, errors.Join(append(b.errs, fmt.Errorf("grid source is required"))...)
	}
	if err := b.check(b.grid, b.config, b.template); err != nil {
		return nil, err
	}
	return newGridManager(*b.grid, orEmpty(b.config), orEmpty(b.template), b.tagName, b.logger)
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *GridManager {
	gm, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("grid manager build failed: %v", err))
	}
	return gm
}

// BuildConfig creates a ConfigManager from the config layered over the template.
// The grid source, if set, is ignored.
func (b *Builder) BuildConfig() (*ConfigManager, error) {
	if err := b.check(b.config, b.template); err != nil {
		return nil, err
	}
	maps, err := loadAll(orEmpty(b.config), orEmpty(b.template))
	if err != nil {
		return nil, err
	}
	return newConfigManager(Merge(maps[0], maps[1]), b.tagName), nil
}

// MustBuildConfig is like BuildConfig but panics on error
func (b *Builder) MustBuildConfig() *ConfigManager {
	cm, err := b.BuildConfig()
	if err != nil {
		panic(fmt.Sprintf("config manager build failed: %v", err))
	}
	return cm
}

// check reports collected builder errors and verifies that the set sources agree in kind.
func (b *Builder) check(sources ...*Source) error {
	if len(b.errs) > 0 {
		return errors.Join(b.errs...)
	}
	var set []Source
	for _, src := range sources {
		if src != nil {
			set = append(set, *src)
		}
	}
	return checkHomogeneous(set...)
}

func orEmpty(src *Source) Source {
	if src == nil {
		return emptySource()
	}
	return *src
}

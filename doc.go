// File: lixenwraith/copoco/doc.go

// Package copoco composes configurations from layered sources and expands
// parameter grids into one configuration per combination.
//
// Features:
//   - Deep merge of an override mapping onto a template mapping
//   - Immutable configuration records with dot-path access
//   - Decoding of records into tagged structs (mapstructure)
//   - Grid expansion: every sequence-valued leaf of a grid specification varies,
//     combinations follow nested-loop order
//   - YAML, TOML and JSON sources with key order preserved
//   - Atomic saves that read back to the same mapping
//
// Quick Start:
//
//	cm, err := copoco.NewConfigManager(
//	    copoco.Path("config.yaml"),   // override
//	    copoco.Path("template.yaml"), // defaults
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	image, _ := cm.Config().GetString("jobs.build.docker.image")
//
// Grids:
//
//	gm, err := copoco.NewGridManager(
//	    copoco.Path("grid.yaml"),     // sequences mark the varying leaves
//	    copoco.Path("config.yaml"),   // baseline config
//	    copoco.Path("template.yaml"), // defaults
//	)
//	for i := 0; i < gm.Len(); i++ {
//	    cm, _ := gm.Next()
//	    run(cm.Config())
//	}
//
// Precedence (highest to lowest):
//  1. Grid combination
//  2. Baseline config
//  3. Template
//
// Sources passed to one constructor must be all paths or all mappings;
// mixing them fails with ErrTypeMismatch.
package copoco

// FILE: lixenwraith/copoco/example/main.go
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lixenwraith/copoco"
)

// JobConfig is the part of each swept configuration a job runner consumes.
type JobConfig struct {
	Docker struct {
		Image   string `yaml:"image"`
		Version string `yaml:"version"`
	} `yaml:"docker"`
	Steps       []string `yaml:"steps"`
	Parallelism int      `yaml:"parallelism"`
}

const (
	templateYAML = `
jobs:
  build:
    docker:
      image: ubuntu
      version: "22.04"
    steps: [checkout, make build]
  test:
    docker:
      image: ubuntu
      version: "22.04"
    parallelism: 1
`
	configYAML = `
jobs:
  build:
    docker:
      version: latest
`
	gridYAML = `
jobs:
  build:
    docker:
      image: [nvidia/cuda, python]
  test:
    parallelism: [2, 4, 8]
`
)

func main() {
	// =========================================================================
	// PART 1: SOURCE FILES
	// Write template, baseline config and grid to a scratch directory.
	// =========================================================================
	dir, err := os.MkdirTemp("", "copoco-example-*")
	if err != nil {
		log.Fatalf("❌ Failed to create scratch directory: %v", err)
	}
	defer os.RemoveAll(dir)

	paths := make(map[string]string)
	for name, content := range map[string]string{
		"template.yaml": templateYAML,
		"config.yaml":   configYAML,
		"grid.yaml":     gridYAML,
	} {
		paths[name] = filepath.Join(dir, name)
		if err := os.WriteFile(paths[name], []byte(content), 0644); err != nil {
			log.Fatalf("❌ Failed to write %s: %v", name, err)
		}
	}
	log.Printf("✅ Sources written to %s", dir)

	// =========================================================================
	// PART 2: SINGLE CONFIGURATION
	// Baseline config layered over the template.
	// =========================================================================
	cm, err := copoco.NewConfigManager(copoco.Path(paths["config.yaml"]), copoco.Path(paths["template.yaml"]))
	if err != nil {
		log.Fatalf("❌ Failed to build configuration: %v", err)
	}
	fmt.Print(cm.Debug())

	// =========================================================================
	// PART 3: GRID SWEEP
	// One configuration per combination, decoded into JobConfig.
	// =========================================================================
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	gm, err := copoco.NewBuilder().
		WithGrid(copoco.Path(paths["grid.yaml"])).
		WithConfig(copoco.Path(paths["config.yaml"])).
		WithTemplate(copoco.Path(paths["template.yaml"])).
		WithLogger(logger).
		Build()
	if err != nil {
		log.Fatalf("❌ Failed to build grid: %v", err)
	}

	for _, axis := range gm.Axes() {
		log.Printf("   axis %s: %v", axis.Name(), axis.Values)
	}

	for {
		run, err := gm.Next()
		if err != nil {
			break // grid exhausted
		}

		var build, test JobConfig
		if err := run.Scan("jobs.build", &build); err != nil {
			log.Fatalf("❌ Scan failed: %v", err)
		}
		if err := run.Scan("jobs.test", &test); err != nil {
			log.Fatalf("❌ Scan failed: %v", err)
		}
		fmt.Printf("run %d/%d: build=%s:%s test.parallelism=%d\n",
			gm.Position(), gm.Len(), build.Docker.Image, build.Docker.Version, test.Parallelism)
	}

	// =========================================================================
	// PART 4: SAVE
	// Persist the last combination so it can be replayed.
	// =========================================================================
	last, err := gm.At(gm.Len() - 1)
	if err != nil {
		log.Fatalf("❌ Failed to get last combination: %v", err)
	}
	out := filepath.Join(dir, "last_run.toml")
	if err := last.Save(out); err != nil {
		log.Fatalf("❌ Failed to save: %v", err)
	}
	log.Printf("✅ Last combination saved to %s", out)
}

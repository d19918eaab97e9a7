// Package config decodes the driver's TOML configuration file (SPEC_FULL.md
// §1 "Driver configuration"; reference: BurntSushi/toml, the teacher
// pack's own choice for structured config over hand-rolled flag parsing).
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Layout selects how the C89 emitter lays out its output files (spec.md
// §4.5 "per-module or single translation-unit layouts").
type Layout string

const (
	// LayoutPerModule writes one .c/.h pair per ssa.Module (the default).
	LayoutPerModule Layout = "per-module"
	// LayoutSingle writes every module into one shared .c/.h pair.
	LayoutSingle Layout = "single"
)

// Config is the decoded shape of a driver TOML file.
//
//	[output]
//	layout = "per-module"   # or "single"
//	header = "build/out.h"  # required when layout = "single"
//	source = "build/out.c"  # required when layout = "single"
//	dir    = "build"        # root for per-module layout; "" means in-memory
//	verbose = false
type Config struct {
	Output Output `toml:"output"`
}

// Output is the [output] table.
type Output struct {
	Layout  Layout `toml:"layout"`
	Header  string `toml:"header"`
	Source  string `toml:"source"`
	Dir     string `toml:"dir"`
	Verbose bool   `toml:"verbose"`
}

// Default returns the zero-value configuration: per-module layout, output
// held in memory rather than written to an OS directory.
func Default() Config {
	return Config{Output: Output{Layout: LayoutPerModule}}
}

// Load reads and decodes the TOML file at path.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks the [output] table's both-or-neither requirement for
// the single-pair layout, mirroring the emitter's own
// SourceAndHeaderOutput check so a malformed config file is rejected
// before a build even starts.
func (c Config) Validate() error {
	switch c.Output.Layout {
	case LayoutPerModule, "":
		return nil
	case LayoutSingle:
		if c.Output.Header == "" || c.Output.Source == "" {
			return fmt.Errorf("config: layout %q requires both output.header and output.source", LayoutSingle)
		}
		return nil
	default:
		return fmt.Errorf("config: unknown output.layout %q", c.Output.Layout)
	}
}

// UseOSDir reports whether output should be written to an OS directory
// rather than held in memory.
func (o Output) UseOSDir() bool {
	return o.Dir != ""
}

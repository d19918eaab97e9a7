package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDecodesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cthulhuc.toml")
	body := `
[output]
layout = "single"
header = "build/out.h"
source = "build/out.c"
verbose = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Layout != LayoutSingle || cfg.Output.Header != "build/out.h" || cfg.Output.Source != "build/out.c" || !cfg.Output.Verbose {
		t.Errorf("Load() = %+v, want single layout with header/source/verbose set", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", Default(), false},
		{"per-module explicit", Config{Output: Output{Layout: LayoutPerModule}}, false},
		{"single with both paths", Config{Output: Output{Layout: LayoutSingle, Header: "h", Source: "s"}}, false},
		{"single missing source", Config{Output: Output{Layout: LayoutSingle, Header: "h"}}, true},
		{"single missing both", Config{Output: Output{Layout: LayoutSingle}}, true},
		{"unknown layout", Config{Output: Output{Layout: "bogus"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUseOSDir(t *testing.T) {
	if Default().Output.UseOSDir() {
		t.Error("Default().Output.UseOSDir() = true, want false")
	}
	cfg := Config{Output: Output{Dir: "build"}}
	if !cfg.Output.UseOSDir() {
		t.Error("UseOSDir() = false, want true when Dir is set")
	}
}

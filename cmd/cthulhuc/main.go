// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	_ "embed"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cthulhu-lang/cthulhuc/config"
	"github.com/cthulhu-lang/cthulhuc/diag"
	"github.com/cthulhu-lang/cthulhuc/emit/c89"
	"github.com/cthulhu-lang/cthulhuc/hir"
	"github.com/cthulhu-lang/cthulhuc/ssa"
	"github.com/cthulhu-lang/cthulhuc/ssaopt"
	"github.com/cthulhu-lang/cthulhuc/vfs"
)

//go:embed doc.go
var doc string

var (
	configFlag  = flag.String("config", "", "path to a driver config TOML file")
	verboseFlag = flag.Bool("v", false, "print every diagnostic, not just errors")
)

func usage() {
	_, after, _ := strings.Cut(doc, "/*\n")
	body, _, _ := strings.Cut(after, "*/")
	io.WriteString(flag.CommandLine.Output(), body+`
Flags:

`)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("cthulhuc: ")
	log.SetFlags(0)

	flag.Usage = usage
	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	sink := &diag.Collector{}
	mods := []*hir.Node{demoModule()}

	prog := ssa.Lower(sink, mods)
	if sink.Failed() {
		reportAndExit(sink)
	}

	ssa.SanityCheck(sink, prog)
	if sink.Failed() {
		reportAndExit(sink)
	}

	ssaopt.Evaluate(sink, prog)
	if sink.Failed() {
		reportAndExit(sink)
	}

	fs, flush := outputFS(cfg)
	opts := c89.Options{HeaderPath: cfg.Output.Header, SourcePath: cfg.Output.Source}
	result, err := c89.Emit(sink, prog, fs, opts)
	if err != nil {
		log.Fatal(err)
	}
	if sink.Failed() {
		reportAndExit(sink)
	}

	if *verboseFlag || cfg.Output.Verbose {
		for _, e := range sink.Events {
			log.Printf("%s: %s", e.ID, e.Message)
		}
	}

	if flush != nil {
		if err := flush(); err != nil {
			log.Fatal(err)
		}
	}

	for _, p := range result.Paths {
		fmt.Println(p)
	}
}

// outputFS picks the in-memory or OS-backed virtual filesystem per the
// config's output.dir setting, returning the flush hook needed to commit
// an OS-backed filesystem's buffered writes to disk (vfs.OS.Flush,
// SPEC_FULL.md §1 "Concurrent output flush").
func outputFS(cfg config.Config) (vfs.FS, func() error) {
	if !cfg.Output.UseOSDir() {
		return vfs.NewMemory(), nil
	}
	osFS := vfs.NewOS(cfg.Output.Dir)
	return osFS, osFS.Flush
}

func reportAndExit(sink *diag.Collector) {
	for _, e := range sink.Events {
		log.Printf("%s: %s", e.ID, e.Message)
	}
	os.Exit(1)
}

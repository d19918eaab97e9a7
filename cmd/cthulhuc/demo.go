package main

import (
	"github.com/cthulhu-lang/cthulhuc/hir"
	"github.com/cthulhu-lang/cthulhuc/internal/bignum"
)

// demoModule builds a minimal, self-contained HIR module: an exported
// constant global and an exported function that returns it. It stands in
// for the name-resolution front end this repository does not implement
// (SPEC_FULL.md §0: "the real name-resolution stage is an out-of-scope
// collaborator"), just enough to drive the wiring below end to end.
func demoModule() *hir.Node {
	intType := &hir.Node{Kind: hir.KindTypeDigit, Name: "int", Sign: hir.Signed, Width: hir.WInt}

	answer := &hir.Node{
		Kind:    hir.KindGlobal,
		Name:    "answer",
		Type:    intType,
		Attrs:   hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic},
		Storage: hir.Storage{Element: intType},
		Body:    &hir.Node{Kind: hir.KindExprDigit, Type: intType, Digit: bignum.FromInt64(42)},
	}

	closure := &hir.Node{Kind: hir.KindTypeClosure, Name: "compute_fn", Result: intType}

	compute := &hir.Node{
		Kind:  hir.KindFunction,
		Name:  "compute",
		Type:  closure,
		Attrs: hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic},
		Body: &hir.Node{
			Kind: hir.KindStmtReturn,
			Value: &hir.Node{
				Kind:   hir.KindExprBinary,
				Type:   intType,
				Binary: hir.BinAdd,
				Lhs:    &hir.Node{Kind: hir.KindExprDigit, Type: intType, Digit: bignum.FromInt64(40)},
				Rhs:    &hir.Node{Kind: hir.KindExprDigit, Type: intType, Digit: bignum.FromInt64(2)},
			},
		},
	}

	mod := hir.NewModule("demo", "cthulhuc.demo")
	mod.Globals = []*hir.Node{answer}
	mod.Functions = []*hir.Node{compute}
	return mod
}

package ssa

import (
	"testing"

	"github.com/cthulhu-lang/cthulhuc/diag"
	"github.com/cthulhu-lang/cthulhuc/hir"
	"github.com/cthulhu-lang/cthulhuc/internal/bignum"
)

func intType() *hir.Node {
	return &hir.Node{Kind: hir.KindTypeDigit, Name: "int", Sign: hir.Signed, Width: hir.WInt}
}

func digitLit(t *hir.Node, v int64) *hir.Node {
	return &hir.Node{Kind: hir.KindExprDigit, Type: t, Digit: bignum.FromInt64(v)}
}

// TestLowerGlobalConstant covers the "global constant folding" scenario
// (spec.md §8): a global whose initializer is a bare literal lowers to a
// single-step entry block computing that literal.
func TestLowerGlobalConstant(t *testing.T) {
	it := intType()
	global := &hir.Node{
		Kind:    hir.KindGlobal,
		Name:    "answer",
		Type:    it,
		Attrs:   hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic},
		Storage: hir.Storage{Element: it},
		Body:    digitLit(it, 42),
	}
	mod := hir.NewModule("m", "m")
	mod.Globals = []*hir.Node{global}

	var sink diag.Collector
	prog := Lower(&sink, []*hir.Node{mod})
	if sink.Failed() {
		t.Fatalf("Lower reported errors: %v", sink.Events)
	}

	if len(prog.Modules) != 1 || len(prog.Modules[0].Globals) != 1 {
		t.Fatalf("unexpected module shape: %+v", prog.Modules)
	}
	sym := prog.Modules[0].Globals[0]
	if sym.Name != "answer" || sym.Kind != SymGlobal {
		t.Fatalf("unexpected symbol: %+v", sym)
	}
}

// TestLowerFunctionBody covers the "function body emission" scenario: a
// function returning a binary expression lowers to one block ending in an
// OpReturn terminator.
func TestLowerFunctionBody(t *testing.T) {
	it := intType()
	closure := &hir.Node{Kind: hir.KindTypeClosure, Result: it}
	fn := &hir.Node{
		Kind:  hir.KindFunction,
		Name:  "compute",
		Type:  closure,
		Attrs: hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic},
		Body: &hir.Node{
			Kind:  hir.KindStmtReturn,
			Value: &hir.Node{Kind: hir.KindExprBinary, Type: it, Binary: hir.BinAdd, Lhs: digitLit(it, 40), Rhs: digitLit(it, 2)},
		},
	}
	mod := hir.NewModule("m", "m")
	mod.Functions = []*hir.Node{fn}

	var sink diag.Collector
	prog := Lower(&sink, []*hir.Node{mod})
	if sink.Failed() {
		t.Fatalf("Lower reported errors: %v", sink.Events)
	}

	sym := prog.Modules[0].Functions[0]
	if sym.Entry == nil || len(sym.Blocks) != 1 {
		t.Fatalf("unexpected function shape: %+v", sym)
	}
	steps := sym.Entry.Steps
	if len(steps) != 2 || steps[1].Op != OpReturn {
		t.Fatalf("unexpected steps: %+v", steps)
	}
	if steps[0].Op != OpBinary || steps[0].BinaryOp != BinAdd {
		t.Fatalf("unexpected first step: %+v", steps[0])
	}
}

// TestLowerLoopThreeBlocks covers the "while-loop emission" scenario:
// compileLoop produces exactly three blocks (loop/body/tail), and break
// jumps straight to tail.
func TestLowerLoopThreeBlocks(t *testing.T) {
	it := intType()
	boolT := &hir.Node{Kind: hir.KindTypeBool, Name: "bool"}
	closure := &hir.Node{Kind: hir.KindTypeClosure}
	fn := &hir.Node{
		Kind:  hir.KindFunction,
		Name:  "loopy",
		Type:  closure,
		Attrs: hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic},
		Body: &hir.Node{
			Kind: hir.KindStmtLoop,
			Cond: &hir.Node{Kind: hir.KindExprBool, Type: boolT, Bool: true},
			Then: &hir.Node{Kind: hir.KindStmtBreak},
		},
	}
	_ = it
	mod := hir.NewModule("m", "m")
	mod.Functions = []*hir.Node{fn}

	var sink diag.Collector
	prog := Lower(&sink, []*hir.Node{mod})
	if sink.Failed() {
		t.Fatalf("Lower reported errors: %v", sink.Events)
	}

	sym := prog.Modules[0].Functions[0]
	// entry + loop + body + tail
	if len(sym.Blocks) != 4 {
		t.Fatalf("expected 4 blocks (entry, loop, body, tail), got %d: %+v", len(sym.Blocks), sym.Blocks)
	}
}

// TestInternStringDedup covers the "string interning dedup" scenario: two
// equal string literals in the same module share one synthetic global.
func TestInternStringDedup(t *testing.T) {
	it := intType()
	byteT := &hir.Node{Kind: hir.KindTypeDigit, Sign: hir.Unsigned, Width: hir.WChar}
	strT := &hir.Node{Kind: hir.KindTypePointer, Target: byteT, Length: 4}
	closure := &hir.Node{Kind: hir.KindTypeClosure, Result: it}

	makeReturn := func() *hir.Node {
		return &hir.Node{
			Kind: hir.KindStmtReturn,
			Value: &hir.Node{
				Kind: hir.KindExprLoad,
				Type: it,
				Operand: &hir.Node{
					Kind:   hir.KindExprOffset,
					Type:   it,
					Expr:   &hir.Node{Kind: hir.KindExprString, Type: strT, String: []byte("abc")},
					Offset: digitLit(it, 0),
				},
			},
		}
	}

	fn1 := &hir.Node{Kind: hir.KindFunction, Name: "f1", Type: closure, Attrs: hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic}, Body: makeReturn()}
	fn2 := &hir.Node{Kind: hir.KindFunction, Name: "f2", Type: closure, Attrs: hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic}, Body: makeReturn()}

	mod := hir.NewModule("m", "m")
	mod.Functions = []*hir.Node{fn1, fn2}

	var sink diag.Collector
	prog := Lower(&sink, []*hir.Node{mod})
	if sink.Failed() {
		t.Fatalf("Lower reported errors: %v", sink.Events)
	}

	// Two functions declared, but only one synthetic string global should
	// have been appended to the module's globals.
	count := 0
	for _, g := range prog.Modules[0].Globals {
		if g.Kind == SymGlobal {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 synthetic string global, got %d: %+v", count, prog.Modules[0].Globals)
	}
}

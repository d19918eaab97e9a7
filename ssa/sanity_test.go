package ssa

import (
	"testing"

	"github.com/cthulhu-lang/cthulhuc/diag"
	"github.com/cthulhu-lang/cthulhuc/hir"
	"github.com/cthulhu-lang/cthulhuc/internal/bignum"
)

// TestSanityCheckPassesValidProgram covers the non-violation path: a
// program lowered through the normal Builder/Lower pipeline has every
// block properly terminated, so SanityCheck finds nothing.
func TestSanityCheckPassesValidProgram(t *testing.T) {
	it := intType()
	closure := &hir.Node{Kind: hir.KindTypeClosure, Result: it}
	fn := &hir.Node{
		Kind:  hir.KindFunction,
		Name:  "compute",
		Type:  closure,
		Attrs: hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic},
		Body: &hir.Node{
			Kind: hir.KindStmtReturn,
			Value: &hir.Node{
				Kind: hir.KindExprBinary, Type: it, Binary: hir.BinAdd,
				Lhs: digitLit(it, 40), Rhs: digitLit(it, 2),
			},
		},
	}
	mod := hir.NewModule("m", "m")
	mod.Functions = []*hir.Node{fn}

	var sink diag.Collector
	prog := Lower(&sink, []*hir.Node{mod})
	if sink.Failed() {
		t.Fatalf("Lower reported errors: %v", sink.Events)
	}

	if n := SanityCheck(&sink, prog); n != 0 {
		t.Errorf("SanityCheck on a valid program = %d violations, want 0 (events: %v)", n, sink.Events)
	}
	if sink.Failed() {
		t.Errorf("sink reported failure after a clean SanityCheck: %v", sink.Events)
	}
}

// TestSanityCheckMissingTerminator covers both block-termination
// violations: an empty block (no steps at all) and a block whose last
// step is not a terminator.
func TestSanityCheckMissingTerminator(t *testing.T) {
	it := NewDigit("int", Quals{}, Signed, WInt)
	empty := &Block{Name: "empty"}
	untermed := &Block{Name: "untermed", Steps: []Step{
		{Op: OpValue, Result: it, Value: NewDigitValue(it, bignum.FromInt64(1))},
	}}
	fn := &Symbol{
		Kind: SymFunction, Name: "broken", Linkage: LinkExport, Visibility: VisPublic,
		Type: &Type{Kind: TyClosure, Result: it},
		Blocks: []*Block{empty, untermed},
		Entry:  empty,
	}
	mod := &Module{Name: "m", Path: "m", Functions: []*Symbol{fn}}
	prog := NewProgram()
	prog.Modules = []*Module{mod}

	var sink diag.Collector
	n := SanityCheck(&sink, prog)
	if n != 2 {
		t.Fatalf("SanityCheck violations = %d, want 2 (one per malformed block): %v", n, sink.Events)
	}
	if !sink.Failed() {
		t.Error("sink.Failed() = false, want true after terminator violations")
	}
	ids := sink.SortedIDs()
	if len(ids) != 1 || ids[0] != diag.Internal {
		t.Errorf("SortedIDs() = %v, want [%v]", ids, diag.Internal)
	}
}

// TestSanityCheckImportLinkageWithBody covers the import-linkage
// invariant: a symbol with linkage=import must have no blocks.
func TestSanityCheckImportLinkageWithBody(t *testing.T) {
	it := NewDigit("int", Quals{}, Signed, WInt)
	block := &Block{Name: "entry", Steps: []Step{
		{Op: OpReturn, ReturnValue: Imm(NewDigitValue(it, bignum.FromInt64(0)))},
	}}
	fn := &Symbol{
		Kind: SymFunction, Name: "shouldnt_have_a_body", Linkage: LinkImport, Visibility: VisPublic,
		Type:   &Type{Kind: TyClosure, Result: it},
		Blocks: []*Block{block},
		Entry:  block,
	}
	mod := &Module{Name: "m", Path: "m", Functions: []*Symbol{fn}}
	prog := NewProgram()
	prog.Modules = []*Module{mod}

	var sink diag.Collector
	n := SanityCheck(&sink, prog)
	if n != 1 {
		t.Fatalf("SanityCheck violations = %d, want 1: %v", n, sink.Events)
	}
	if !sink.Failed() {
		t.Error("sink.Failed() = false, want true after an import-linkage-with-body violation")
	}
}

package ssaopt

import (
	"testing"

	"github.com/cthulhu-lang/cthulhuc/diag"
	"github.com/cthulhu-lang/cthulhuc/hir"
	"github.com/cthulhu-lang/cthulhuc/internal/bignum"
	"github.com/cthulhu-lang/cthulhuc/ssa"
)

func intHIR() *hir.Node {
	return &hir.Node{Kind: hir.KindTypeDigit, Name: "int", Sign: hir.Signed, Width: hir.WInt}
}

func buildGlobal(t *testing.T, name string, body *hir.Node, it *hir.Node) *ssa.Program {
	t.Helper()
	global := &hir.Node{
		Kind:    hir.KindGlobal,
		Name:    name,
		Type:    it,
		Attrs:   hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic},
		Storage: hir.Storage{Element: it},
		Body:    body,
	}
	mod := hir.NewModule("m", "m")
	mod.Globals = []*hir.Node{global}

	var sink diag.Collector
	prog := ssa.Lower(&sink, []*hir.Node{mod})
	if sink.Failed() {
		t.Fatalf("Lower reported errors: %v", sink.Events)
	}
	return prog
}

func TestEvaluateFoldsArithmetic(t *testing.T) {
	it := intHIR()
	body := &hir.Node{
		Kind: hir.KindExprBinary, Type: it, Binary: hir.BinAdd,
		Lhs: &hir.Node{Kind: hir.KindExprDigit, Type: it, Digit: bignum.FromInt64(40)},
		Rhs: &hir.Node{Kind: hir.KindExprDigit, Type: it, Digit: bignum.FromInt64(2)},
	}
	prog := buildGlobal(t, "answer", body, it)

	var sink diag.Collector
	Evaluate(&sink, prog)
	if sink.Failed() {
		t.Fatalf("Evaluate reported errors: %v", sink.Events)
	}

	sym := prog.Modules[0].Globals[0]
	if sym.Value == nil {
		t.Fatal("global Value not populated")
	}
	got := sym.Value.AsDigit()
	if got.Int64() != 42 {
		t.Errorf("folded value = %d, want 42", got.Int64())
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	it := intHIR()
	body := &hir.Node{Kind: hir.KindExprDigit, Type: it, Digit: bignum.FromInt64(7)}
	prog := buildGlobal(t, "seven", body, it)

	var sink diag.Collector
	Evaluate(&sink, prog)
	first := prog.Modules[0].Globals[0].Value

	Evaluate(&sink, prog)
	second := prog.Modules[0].Globals[0].Value

	if first != second {
		t.Error("Evaluate() a second time replaced an already-computed Value, want no-op")
	}
}

func TestEvaluateDivideByZero(t *testing.T) {
	it := intHIR()
	body := &hir.Node{
		Kind: hir.KindExprBinary, Type: it, Binary: hir.BinDiv,
		Lhs: &hir.Node{Kind: hir.KindExprDigit, Type: it, Digit: bignum.FromInt64(5)},
		Rhs: &hir.Node{Kind: hir.KindExprDigit, Type: it, Digit: bignum.FromInt64(0)},
	}
	prog := buildGlobal(t, "bad", body, it)

	var sink diag.Collector
	Evaluate(&sink, prog)
	if !sink.Failed() {
		t.Fatal("Evaluate() did not report an error for division by zero")
	}
	ids := sink.SortedIDs()
	if len(ids) != 1 || ids[0] != diag.DivideByZero {
		t.Errorf("SortedIDs() = %v, want [%v]", ids, diag.DivideByZero)
	}
}

func TestEvaluateNegativeDivisionFloors(t *testing.T) {
	it := intHIR()
	body := &hir.Node{
		Kind: hir.KindExprBinary, Type: it, Binary: hir.BinDiv,
		Lhs: &hir.Node{Kind: hir.KindExprDigit, Type: it, Digit: bignum.FromInt64(-7)},
		Rhs: &hir.Node{Kind: hir.KindExprDigit, Type: it, Digit: bignum.FromInt64(2)},
	}
	prog := buildGlobal(t, "q", body, it)

	var sink diag.Collector
	Evaluate(&sink, prog)
	if sink.Failed() {
		t.Fatalf("Evaluate reported errors: %v", sink.Events)
	}
	got := prog.Modules[0].Globals[0].Value.AsDigit().Int64()
	if got != -4 {
		t.Errorf("-7/2 folded to %d, want -4 (floor division)", got)
	}
}

package c89

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cthulhu-lang/cthulhuc/diag"
	"github.com/cthulhu-lang/cthulhuc/hir"
	"github.com/cthulhu-lang/cthulhuc/internal/bignum"
	"github.com/cthulhu-lang/cthulhuc/ssa"
	"github.com/cthulhu-lang/cthulhuc/ssaopt"
	"github.com/cthulhu-lang/cthulhuc/vfs"
)

func hirInt() *hir.Node {
	return &hir.Node{Kind: hir.KindTypeDigit, Name: "int", Sign: hir.Signed, Width: hir.WInt}
}

func hirDigit(t *hir.Node, v int64) *hir.Node {
	return &hir.Node{Kind: hir.KindExprDigit, Type: t, Digit: bignum.FromInt64(v)}
}

// sourceOf returns the contents of the one .c file fs holds (tests use
// small single-module programs, so there is exactly one).
func sourceOf(t *testing.T, fs *vfs.Memory) string {
	t.Helper()
	for _, p := range fs.Paths() {
		if strings.HasSuffix(p, ".c") {
			data, _ := fs.ReadFile(p)
			return string(data)
		}
	}
	t.Fatal("no .c file produced")
	return ""
}

func headerOf(t *testing.T, fs *vfs.Memory) string {
	t.Helper()
	for _, p := range fs.Paths() {
		if strings.HasSuffix(p, ".h") {
			data, _ := fs.ReadFile(p)
			return string(data)
		}
	}
	t.Fatal("no .h file produced")
	return ""
}

func TestEmitSourceAndHeaderOutputValidation(t *testing.T) {
	sink := &diag.Collector{}
	fs := vfs.NewMemory()
	result, err := Emit(sink, ssa.NewProgram(), fs, Options{HeaderPath: "out.h"})
	if err != nil {
		t.Fatalf("Emit returned error %v, want nil (diagnosable condition, not a Go error)", err)
	}
	if result.Paths != nil {
		t.Errorf("Result.Paths = %v, want empty", result.Paths)
	}
	ids := sink.SortedIDs()
	if len(ids) != 1 || ids[0] != diag.SourceAndHeaderOutput {
		t.Errorf("SortedIDs() = %v, want [%v]", ids, diag.SourceAndHeaderOutput)
	}
}

// TestEmitGlobalConstant covers the "global constant folding" scenario
// end to end: HIR -> ssa.Lower -> ssaopt.Evaluate -> c89.Emit.
func TestEmitGlobalConstant(t *testing.T) {
	it := hirInt()
	global := &hir.Node{
		Kind:    hir.KindGlobal,
		Name:    "answer",
		Type:    it,
		Attrs:   hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic},
		Storage: hir.Storage{Element: it},
		Body:    hirDigit(it, 42),
	}
	mod := hir.NewModule("m", "m")
	mod.Globals = []*hir.Node{global}

	sink := &diag.Collector{}
	prog := ssa.Lower(sink, []*hir.Node{mod})
	ssaopt.Evaluate(sink, prog)
	if sink.Failed() {
		t.Fatalf("pipeline reported errors: %v", sink.Events)
	}

	fs := vfs.NewMemory()
	if _, err := Emit(sink, prog, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	src := sourceOf(t, fs)
	if !strings.Contains(src, "int answer = { 42 };") {
		t.Errorf("source = %q, want it to contain %q", src, "int answer = { 42 };")
	}
}

// TestEmitFunctionBody covers the "function body emission" scenario.
func TestEmitFunctionBody(t *testing.T) {
	it := hirInt()
	closure := &hir.Node{Kind: hir.KindTypeClosure, Result: it}
	fn := &hir.Node{
		Kind:  hir.KindFunction,
		Name:  "compute",
		Type:  closure,
		Attrs: hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic},
		Body: &hir.Node{
			Kind:  hir.KindStmtReturn,
			Value: &hir.Node{Kind: hir.KindExprBinary, Type: it, Binary: hir.BinAdd, Lhs: hirDigit(it, 40), Rhs: hirDigit(it, 2)},
		},
	}
	mod := hir.NewModule("m", "m")
	mod.Functions = []*hir.Node{fn}

	sink := &diag.Collector{}
	prog := ssa.Lower(sink, []*hir.Node{mod})
	if sink.Failed() {
		t.Fatalf("Lower reported errors: %v", sink.Events)
	}

	fs := vfs.NewMemory()
	if _, err := Emit(sink, prog, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	src := sourceOf(t, fs)
	if !strings.Contains(src, "compute(void)") {
		t.Errorf("source = %q, want it to declare compute(void)", src)
	}
	if !strings.Contains(src, "(40 + 2)") {
		t.Errorf("source = %q, want the unfolded binary expression \"(40 + 2)\"", src)
	}
	if !strings.Contains(src, "return vreg_") {
		t.Errorf("source = %q, want a return of the computed vreg", src)
	}
}

// TestEmitLoopGotoStructure covers the "while-loop emission" scenario: the
// three lowered blocks (loop/body/tail) each appear as a goto label, and a
// break jumps straight to tail.
func TestEmitLoopGotoStructure(t *testing.T) {
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
	mod := hir.NewModule("m", "m")
	mod.Functions = []*hir.Node{fn}

	sink := &diag.Collector{}
	prog := ssa.Lower(sink, []*hir.Node{mod})
	if sink.Failed() {
		t.Fatalf("Lower reported errors: %v", sink.Events)
	}

	fs := vfs.NewMemory()
	if _, err := Emit(sink, prog, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	src := sourceOf(t, fs)
	for _, label := range []string{"bb_loop:", "bb_body:", "bb_tail:"} {
		if !strings.Contains(src, label) {
			t.Errorf("source = %q, want label %q (literal loop/body/tail blocks)", src, label)
		}
	}
	if strings.Count(src, "goto bb_loop;") == 0 {
		t.Errorf("source = %q, want a jump back to the loop head", src)
	}
}

// TestEmitStringInterningDedup covers the "string interning dedup"
// scenario: two equal string literals used from two functions share one
// emitted global definition.
func TestEmitStringInterningDedup(t *testing.T) {
	it := hirInt()
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
					Offset: hirDigit(it, 0),
				},
			},
		}
	}

	fn1 := &hir.Node{Kind: hir.KindFunction, Name: "f1", Type: closure, Attrs: hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic}, Body: makeReturn()}
	fn2 := &hir.Node{Kind: hir.KindFunction, Name: "f2", Type: closure, Attrs: hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic}, Body: makeReturn()}
	mod := hir.NewModule("m", "m")
	mod.Functions = []*hir.Node{fn1, fn2}

	sink := &diag.Collector{}
	prog := ssa.Lower(sink, []*hir.Node{mod})
	ssaopt.Evaluate(sink, prog)
	if sink.Failed() {
		t.Fatalf("pipeline reported errors: %v", sink.Events)
	}

	fs := vfs.NewMemory()
	if _, err := Emit(sink, prog, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	src := sourceOf(t, fs)
	if got := strings.Count(src, `"abc"`); got != 1 {
		t.Errorf("source contains %q %d times, want exactly once (deduplicated)", `"abc"`, got)
	}
}

// TestEmitEnum covers the "enum emission" scenario.
func TestEmitEnum(t *testing.T) {
	underlying := ssa.NewDigit("int", ssa.Quals{}, ssa.Signed, ssa.WInt)
	enumT := ssa.NewEnum("Color", ssa.Quals{}, underlying, []ssa.Case{
		{Name: "Red", Value: bignum.FromInt64(0)},
		{Name: "Green", Value: bignum.FromInt64(1)},
	})
	mod := &ssa.Module{Name: "m", Path: "m", Types: []*ssa.Type{enumT}}
	prog := ssa.NewProgram()
	prog.Modules = []*ssa.Module{mod}

	sink := &diag.Collector{}
	fs := vfs.NewMemory()
	if _, err := Emit(sink, prog, fs, Options{}); err != nil {
		t.Fatal(err)
	}
	hdr := headerOf(t, fs)
	if !strings.Contains(hdr, "typedef int Color_underlying_t;") {
		t.Errorf("header = %q, want the underlying typedef", hdr)
	}
	if !strings.Contains(hdr, "eColorRed = 0,") || !strings.Contains(hdr, "eColorGreen = 1,") {
		t.Errorf("header = %q, want both enumerator constants", hdr)
	}
	if !strings.Contains(hdr, "enum class Color") {
		t.Errorf("header = %q, want the C++ enum class view", hdr)
	}
}

// TestEmitSingleLayout covers the single translation-unit output mode.
func TestEmitSingleLayout(t *testing.T) {
	it := hirInt()
	global := &hir.Node{
		Kind:    hir.KindGlobal,
		Name:    "answer",
		Type:    it,
		Attrs:   hir.Attrs{Linkage: hir.LinkExport, Visibility: hir.VisPublic},
		Storage: hir.Storage{Element: it},
		Body:    hirDigit(it, 1),
	}
	mod := hir.NewModule("m", "m")
	mod.Globals = []*hir.Node{global}

	sink := &diag.Collector{}
	prog := ssa.Lower(sink, []*hir.Node{mod})
	ssaopt.Evaluate(sink, prog)
	if sink.Failed() {
		t.Fatalf("pipeline reported errors: %v", sink.Events)
	}

	fs := vfs.NewMemory()
	result, err := Emit(sink, prog, fs, Options{HeaderPath: "out.h", SourcePath: "out.c"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"out.c", "out.h"}
	if diff := cmp.Diff(want, result.Paths); diff != "" {
		t.Errorf("Result.Paths mismatch (-want +got):\n%s", diff)
	}
}

// Package c89 is the C89 backend emitter: it walks a lowered, optimized
// ssa.Program and writes compilable C source (spec.md §4.5 "C Backend
// Emitter"). Reference: original_source/src/cthulhu/emit/src/c89/emit.c.
package c89

import (
	"bytes"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/cthulhu-lang/cthulhuc/diag"
	"github.com/cthulhu-lang/cthulhuc/internal/names"
	"github.com/cthulhu-lang/cthulhuc/ssa"
	"github.com/cthulhu-lang/cthulhuc/vfs"
)

// Sentinel causes for this package's internal-invariant diagnostics,
// wrapped with xerrors.Errorf("%w", ...) at each call site (SPEC_FULL.md §1
// "Errors"; same wrapping style as ssa/sanity.go).
var (
	errPublicModuleLinkage = xerrors.New("public symbol has module linkage")
	errUnhandledOpcode     = xerrors.New("opcode has no writeBlock case")
)

// cInterfaceGuard is the preprocessor guard wrapping the plain-C view of an
// aggregate/enum alongside its C++ namespaced view (SPEC_FULL.md §4 "C++
// interoperability stubs"; reference: CTU_CINTERFACE in emit.c).
const cInterfaceGuard = "defined(CTHULHU_CINTERFACE) || !defined(__cplusplus)"

// Options configures one Emit call (spec.md §4.5 "per-module or single
// translation-unit layouts"). HeaderPath/SourcePath select the single-pair
// layout when both are set; leaving both empty selects the default
// per-module layout, one .c/.h pair per ssa.Module (reference: emit_c89's
// file_override branch vs. the default c89_begin_module loop).
type Options struct {
	HeaderPath string
	SourcePath string
}

// Result reports the paths Emit wrote, in the stable, deterministic order
// spec.md §5 requires.
type Result struct {
	Paths []string
}

type file struct {
	path string
	buf  bytes.Buffer
}

func newFile(p string) *file { return &file{path: p} }

// emitter is the whole-run context (reference: c89_emit_t).
type emitter struct {
	sink   diag.Sink
	mangle *mangler
	fmt    *formatter
	prog   *ssa.Program

	modOfType   map[*ssa.Type]*ssa.Module
	modOfSymbol map[*ssa.Symbol]*ssa.Module

	defined map[*ssa.Type]bool // type-ordered definition guard, global for the run

	single       bool
	singleHeader *file
	singleSource *file

	headers map[*ssa.Module]*file
	sources map[*ssa.Module]*file
}

// Emit renders prog as C89 source/header files and writes them through fs
// (spec.md §6 "Output: virtual filesystem"). It never returns a Go error
// for a diagnosable condition: a malformed Options (exactly one of
// HeaderPath/SourcePath set) is reported to sink as
// diag.SourceAndHeaderOutput and Emit returns an empty Result, nil
// (reference: the `(header_out != NULL) ^ (source_out != NULL)` check in
// emit_c89). The returned error is reserved for the underlying vfs failing.
func Emit(sink diag.Sink, prog *ssa.Program, fs vfs.FS, opts Options) (Result, error) {
	if (opts.HeaderPath != "") != (opts.SourcePath != "") {
		sink.Notify(diag.SourceAndHeaderOutput, nil, "both or neither of HeaderPath and SourcePath must be specified")
		return Result{}, nil
	}

	e := &emitter{
		sink:        sink,
		mangle:      newMangler(),
		fmt:         &formatter{sink: sink},
		prog:        prog,
		modOfType:   make(map[*ssa.Type]*ssa.Module),
		modOfSymbol: make(map[*ssa.Symbol]*ssa.Module),
		defined:     make(map[*ssa.Type]bool),
		headers:     make(map[*ssa.Module]*file),
		sources:     make(map[*ssa.Module]*file),
	}

	mods := prog.AllModules()
	for _, mod := range mods {
		for _, t := range mod.Types {
			e.modOfType[t] = mod
		}
		for _, g := range mod.Globals {
			e.modOfSymbol[g] = mod
		}
		for _, fn := range mod.Functions {
			e.modOfSymbol[fn] = mod
		}
	}

	if opts.HeaderPath != "" {
		e.single = true
		e.singleHeader = newFile(opts.HeaderPath)
		e.singleSource = newFile(opts.SourcePath)
		e.emitSingle(mods)
	} else {
		e.emitPerModule(mods)
	}

	for _, mod := range mods {
		e.defineModule(mod)
	}

	return e.flush(fs)
}

func (e *emitter) headerOf(mod *ssa.Module) *file {
	if e.single {
		return e.singleHeader
	}
	return e.headers[mod]
}

func (e *emitter) sourceOf(mod *ssa.Module) *file {
	if e.single {
		return e.singleSource
	}
	return e.sources[mod]
}

// modStem derives the per-module include/src basename from a module's
// dotted logical path, validating that path's hygiene with
// names.CleanModulePath before trusting it as a filesystem path segment
// (SPEC_FULL.md §3 "logical path (for filesystem and namespacing)"). A
// module whose path fails that check falls back to its bare name, with an
// internal diagnostic so the failure is not silent.
func (e *emitter) modStem(mod *ssa.Module) string {
	if mod.Path == "" {
		return mod.Name
	}
	clean, err := names.CleanModulePath(mod.Path)
	if err != nil {
		wrapped := xerrors.Errorf("emit: module %q has an unusable path %q: %w", mod.Name, mod.Path, err)
		e.sink.Notify(diag.Internal, nil, "%s", wrapped)
		return mod.Name
	}
	return strings.ReplaceAll(clean, ".", "/") + "/" + mod.Name
}

// emitPerModule creates one source/header file pair per module and writes
// its prelude (reference: c89_begin_module).
func (e *emitter) emitPerModule(mods []*ssa.Module) {
	for _, mod := range mods {
		stem := e.modStem(mod)
		hdr := newFile(path.Join("include", stem+".h"))
		src := newFile(path.Join("src", stem+".c"))
		e.headers[mod] = hdr
		e.sources[mod] = src

		fmt.Fprint(&hdr.buf, "#pragma once\n#include <stdbool.h>\n#include <stddef.h>\n#include <stdint.h>\n")
		fmt.Fprintf(&src.buf, "#include \"%s.h\"\n", stem)
	}

	for _, mod := range mods {
		e.emitRequiredHeaders(mod)
		e.protoModule(mod)
	}
}

// emitRequiredHeaders writes one #include per other module mod's symbols
// directly depend on (reference: get_required_headers/emit_required_headers).
func (e *emitter) emitRequiredHeaders(mod *ssa.Module) {
	requires := make(map[*ssa.Module]bool)
	collect := func(symbols []*ssa.Symbol) {
		for _, sym := range symbols {
			for _, dep := range e.prog.Deps(sym) {
				depMod := e.modOfSymbol[dep]
				if depMod != nil && depMod != mod {
					requires[depMod] = true
				}
			}
		}
	}
	collect(mod.Globals)
	collect(mod.Functions)

	var stems []string
	for m := range requires {
		stems = append(stems, e.modStem(m))
	}
	sort.Strings(stems)

	hdr := e.headerOf(mod)
	for _, s := range stems {
		fmt.Fprintf(&hdr.buf, "#include \"%s.h\"\n", s)
	}
}

// emitSingle lays out every module's types and symbol prototypes into one
// shared header/source pair (reference: c89_emit_single). There is no
// cross-module #include step here: everything lives in the one pair, so
// emit_required_headers has nothing to do (matching the original's own
// comment to that effect).
func (e *emitter) emitSingle(mods []*ssa.Module) {
	hdr, src := e.singleHeader, e.singleSource
	fmt.Fprint(&hdr.buf, "#pragma once\n/* generated by cthulhuc */\n/* do not modify this file directly */\n#include <stdbool.h>\n#include <stddef.h>\n#include <stdint.h>\n")
	fmt.Fprintf(&src.buf, "/* generated by cthulhuc */\n/* do not modify this file directly */\n#include \"%s\"\n", path.Base(hdr.path))

	for _, mod := range mods {
		e.protoTypes(mod, hdr, mod.Types)
	}
	for _, mod := range mods {
		e.defineTypes(mod, hdr, mod.Types)
	}
	for _, mod := range mods {
		for _, g := range mod.Globals {
			e.protoGlobal(mod, g)
		}
	}
	for _, mod := range mods {
		for _, fn := range mod.Functions {
			e.protoFunction(mod, fn)
		}
	}
}

// protoModule writes forward declarations for mod's types and symbol
// prototypes (reference: c89_proto_module).
func (e *emitter) protoModule(mod *ssa.Module) {
	hdr := e.headerOf(mod)
	e.protoTypes(mod, hdr, mod.Types)
	for _, g := range mod.Globals {
		e.protoGlobal(mod, g)
	}
	for _, fn := range mod.Functions {
		e.protoFunction(mod, fn)
	}
}

func (e *emitter) protoTypes(mod *ssa.Module, hdr *file, types []*ssa.Type) {
	for _, t := range types {
		e.protoType(mod, hdr, t)
	}
}

// protoType forward-declares an aggregate or fully defines an enum, the
// two kinds that need a declaration ahead of use (reference:
// c89_proto_type).
func (e *emitter) protoType(mod *ssa.Module, hdr *file, t *ssa.Type) {
	switch t.Kind {
	case ssa.TyStruct:
		e.protoAggregate(hdr, "struct", t.Name, mod)
	case ssa.TyUnion:
		e.protoAggregate(hdr, "union", t.Name, mod)
	case ssa.TyEnum:
		e.defineEnum(hdr, t, mod)
	default:
		// no forward declaration needed for scalar/closure/pointer types.
	}
}

// protoAggregate writes the plain-C forward declaration plus, when mod is
// known, the C++-namespaced equivalent (reference: c89_proto_aggregate).
func (e *emitter) protoAggregate(hdr *file, keyword, name string, mod *ssa.Module) {
	fmt.Fprintf(&hdr.buf, "#if %s\n", cInterfaceGuard)
	fmt.Fprintf(&hdr.buf, "%s %s;\n", keyword, name)
	fmt.Fprintf(&hdr.buf, "#endif /* CTHULHU_CINTERFACE */\n")

	if mod == nil {
		return
	}
	ns := namespace(mod)
	fmt.Fprint(&hdr.buf, "#ifdef __cplusplus\n")
	fmt.Fprintf(&hdr.buf, "namespace %s {\n", ns)
	fmt.Fprintf(&hdr.buf, "\t%s %s;\n", keyword, name)
	fmt.Fprintf(&hdr.buf, "} /* %s */\n", ns)
	fmt.Fprint(&hdr.buf, "#endif /* __cplusplus */\n")
}

// defineEnum writes the underlying-type typedef, the plain-C enumerator
// list and the C++ enum class view (reference: define_enum in emit.c).
func (e *emitter) defineEnum(hdr *file, t *ssa.Type, mod *ssa.Module) {
	under := t.Name + "_underlying_t"

	fmt.Fprintf(&hdr.buf, "#if %s\n", cInterfaceGuard)
	fmt.Fprintf(&hdr.buf, "typedef %s;\n", e.fmt.declare(t.Underlying, under))
	fmt.Fprintf(&hdr.buf, "enum %s_cases_t { /* %d cases */\n", t.Name, len(t.Cases))
	for _, c := range t.Cases {
		fmt.Fprintf(&hdr.buf, "\te%s%s = %s,\n", t.Name, c.Name, c.Value.String())
	}
	fmt.Fprint(&hdr.buf, "};\n")
	fmt.Fprint(&hdr.buf, "#endif /* CTHULHU_CINTERFACE */\n")

	if mod == nil {
		return
	}
	ns := namespace(mod)
	underCxx := strings.TrimSpace(e.fmt.declare(t.Underlying, ""))
	fmt.Fprint(&hdr.buf, "#ifdef __cplusplus\n")
	fmt.Fprintf(&hdr.buf, "namespace %s {\n", ns)
	fmt.Fprintf(&hdr.buf, "\tenum class %s : %s {\n", t.Name, underCxx)
	for _, c := range t.Cases {
		fmt.Fprintf(&hdr.buf, "\t\te%s = %s,\n", c.Name, c.Value.String())
	}
	fmt.Fprint(&hdr.buf, "\t};\n")
	fmt.Fprintf(&hdr.buf, "} /* %s */\n", ns)
	fmt.Fprint(&hdr.buf, "#endif /* __cplusplus */\n")
}

// protoGlobal writes a global's declaration to its module's header when
// public, its source otherwise (reference: c89_proto_global).
func (e *emitter) protoGlobal(mod *ssa.Module, g *ssa.Symbol) {
	if g.Visibility == ssa.VisPublic && g.Linkage == ssa.LinkModule {
		err := xerrors.Errorf("emit: global %q: %w", g.Name, errPublicModuleLinkage)
		e.sink.Notify(diag.Internal, nil, "%s", err)
	}

	text := linkagePrefix(g.Linkage) + e.fmt.storageDecl(g.Storage, e.mangle.name(g)) + ";\n"
	if g.Visibility == ssa.VisPublic {
		fmt.Fprint(&e.headerOf(mod).buf, text)
	} else {
		fmt.Fprint(&e.sourceOf(mod).buf, text)
	}
}

// protoFunction writes a function's prototype, skipping entry points,
// which are never called from generated C (reference: c89_proto_function).
func (e *emitter) protoFunction(mod *ssa.Module, fn *ssa.Symbol) {
	if isEntryPoint(fn.Linkage) {
		return
	}

	closure := fn.Type
	result := e.fmt.declare(closure.Result, e.mangle.name(fn))
	params := e.fmt.params(closure.Params, closure.Variadic)
	text := fmt.Sprintf("%s%s(%s);\n", linkagePrefix(fn.Linkage), result, params)

	if fn.Visibility == ssa.VisPublic {
		fmt.Fprint(&e.headerOf(mod).buf, text)
	} else {
		fmt.Fprint(&e.sourceOf(mod).buf, text)
	}
}

// defineTypes writes struct/union bodies in dependency order (reference:
// c89_define_types/define_type_ordererd).
func (e *emitter) defineTypes(mod *ssa.Module, hdr *file, types []*ssa.Type) {
	for _, t := range types {
		e.defineTypeOrdered(hdr, t)
	}
}

func (e *emitter) defineTypeOrdered(hdr *file, t *ssa.Type) {
	if e.defined[t] {
		return
	}
	e.defined[t] = true

	if t.Kind == ssa.TyStruct || t.Kind == ssa.TyUnion {
		for _, field := range t.Fields {
			e.defineTypeOrdered(hdr, field.Type)
		}
	}

	mod := e.modOfType[t]
	switch t.Kind {
	case ssa.TyStruct:
		e.defineRecord(hdr, "struct", t, mod)
	case ssa.TyUnion:
		e.defineRecord(hdr, "union", t, mod)
	default:
		// enums are fully defined at proto time; scalars/closures/pointers
		// need no standalone definition.
	}
}

// defineRecord writes a struct/union's field list, plain-C then C++ views
// (reference: define_record).
func (e *emitter) defineRecord(hdr *file, keyword string, t *ssa.Type, mod *ssa.Module) {
	fmt.Fprintf(&hdr.buf, "#if %s\n", cInterfaceGuard)
	fmt.Fprintf(&hdr.buf, "%s %s {\n", keyword, t.Name)
	for _, field := range t.Fields {
		fmt.Fprintf(&hdr.buf, "\t%s;\n", e.fmt.declare(field.Type, field.Name))
	}
	fmt.Fprint(&hdr.buf, "};\n")
	fmt.Fprint(&hdr.buf, "#endif /* CTHULHU_CINTERFACE */\n")

	if mod == nil {
		return
	}
	ns := namespace(mod)
	fmt.Fprint(&hdr.buf, "#ifdef __cplusplus\n")
	fmt.Fprintf(&hdr.buf, "namespace %s {\n", ns)
	fmt.Fprintf(&hdr.buf, "\t%s %s {\n", keyword, t.Name)
	for _, field := range t.Fields {
		fmt.Fprintf(&hdr.buf, "\t\t%s;\n", e.fmt.declare(field.Type, field.Name))
	}
	fmt.Fprint(&hdr.buf, "\t};\n")
	fmt.Fprintf(&hdr.buf, "} /* %s */\n", ns)
	fmt.Fprint(&hdr.buf, "#endif /* __cplusplus */\n")
}

// defineModule writes every global's initializer and every function's
// body to mod's source (reference: c89_define_module).
func (e *emitter) defineModule(mod *ssa.Module) {
	if !e.single {
		e.defineTypes(mod, e.headerOf(mod), mod.Types)
	}
	for _, g := range mod.Globals {
		e.defineGlobal(mod, g)
	}
	for _, fn := range mod.Functions {
		e.defineFunction(mod, fn)
	}
}

// defineGlobal writes a global's storage declaration and initializer
// (reference: c89_define_global/write_init).
func (e *emitter) defineGlobal(mod *ssa.Module, g *ssa.Symbol) {
	if g.Linkage == ssa.LinkImport {
		return
	}

	src := e.sourceOf(mod)
	fmt.Fprint(&src.buf, linkagePrefix(g.Linkage)+e.fmt.storageDecl(g.Storage, e.mangle.name(g)))
	if g.Value != nil && g.Value.Init {
		init := e.fmt.formatValue(g.Value, e.mangle)
		if g.Value.Type.Kind == ssa.TyPointer {
			fmt.Fprintf(&src.buf, " = %s", init)
		} else {
			fmt.Fprintf(&src.buf, " = { %s }", init)
		}
	}
	fmt.Fprint(&src.buf, ";\n")
}

// fnCtx carries the per-function block-label disambiguation table
// (reference: get_block_name/get_step_name in emit.c, which resolve a
// block's possibly-repeated builder-assigned name — "then"/"tail"/"other"
// are reused by every if-statement, see ssa_block_create's call sites in
// ssa.c — to a unique per-function label; our Operand already carries the
// defining (block, index) pair directly, so vreg names are derived the
// same way without needing the reference emitter's separate step->type
// map).
type fnCtx struct {
	sym  *ssa.Symbol
	base map[*ssa.Block]string
}

func newFnCtx(sym *ssa.Symbol) *fnCtx {
	counts := make(map[string]int)
	base := make(map[*ssa.Block]string, len(sym.Blocks))
	for _, b := range sym.Blocks {
		n := counts[b.Name]
		counts[b.Name] = n + 1
		if n == 0 {
			base[b] = b.Name
		} else {
			base[b] = b.Name + "_" + strconv.Itoa(n)
		}
	}
	return &fnCtx{sym: sym, base: base}
}

func (fx *fnCtx) label(b *ssa.Block) string { return "bb_" + fx.base[b] }

func (fx *fnCtx) vreg(b *ssa.Block, idx int) string {
	return "vreg_" + fx.base[b] + "_" + strconv.Itoa(idx)
}

// defineFunction writes a function's locals and block bodies (reference:
// c89_define_function).
func (e *emitter) defineFunction(mod *ssa.Module, fn *ssa.Symbol) {
	if fn.Linkage == ssa.LinkImport {
		return
	}

	src := e.sourceOf(mod)
	closure := fn.Type
	result := e.fmt.declare(closure.Result, e.mangle.name(fn))
	params := e.fmt.params(closure.Params, closure.Variadic)
	fmt.Fprintf(&src.buf, "%s%s(%s) {\n", linkagePrefix(fn.Linkage), result, params)

	for i, local := range fn.Locals {
		fmt.Fprintf(&src.buf, "\t%s;\n", e.fmt.storageDecl(local.Storage, localName(i, local)))
	}

	fx := newFnCtx(fn)
	fmt.Fprintf(&src.buf, "\tgoto %s;\n", fx.label(fn.Entry))
	for _, b := range fn.Blocks {
		e.writeBlock(src, fx, b)
	}
	fmt.Fprint(&src.buf, "}\n")
}

func (e *emitter) formatOperand(fx *fnCtx, op ssa.Operand) string {
	switch op.Kind {
	case ssa.OpEmpty:
		return "/* empty */"
	case ssa.OpImm:
		return e.fmt.formatValue(op.Imm, e.mangle)
	case ssa.OpReg:
		return fx.vreg(op.RegBlock, op.RegIndex)
	case ssa.OpLocal:
		return localName(op.Index, fx.sym.Locals[op.Index])
	case ssa.OpParam:
		return paramName(op.Index, fx.sym.Params[op.Index])
	case ssa.OpGlobal:
		return e.mangle.name(op.Symbol)
	case ssa.OpFunction:
		return e.mangle.name(op.Symbol)
	case ssa.OpBlock:
		return fx.label(op.Block)
	default:
		panic("emit/c89: unknown operand kind")
	}
}

func (e *emitter) operandTypeName(fx *fnCtx, op ssa.Operand) string {
	t := ssa.OperandType(fx.sym, op)
	return strings.TrimSpace(e.fmt.declare(t, ""))
}

// operandCantReturn mirrors operand_cant_return: a bare `return;` is
// written when the return operand is empty, or an immediate of unit/empty
// type.
func operandCantReturn(op ssa.Operand) bool {
	if op.Kind == ssa.OpImm {
		k := op.Imm.Type.Kind
		return k == ssa.TyUnit || k == ssa.TyEmpty
	}
	return op.Kind == ssa.OpEmpty
}

// writeBlock lowers one block's steps to C statements (reference:
// c89_write_block).
func (e *emitter) writeBlock(src *file, fx *fnCtx, b *ssa.Block) {
	fmt.Fprintf(&src.buf, "%s: { /* len = %d */\n", fx.label(b), len(b.Steps))

	for i := range b.Steps {
		step := &b.Steps[i]
		switch step.Op {
		case ssa.OpNop:
			// no C statement corresponds to a nop.

		case ssa.OpValue:
			vreg := fx.vreg(b, i)
			fmt.Fprintf(&src.buf, "\t%s = %s;\n", e.fmt.declare(step.Result, vreg), e.fmt.formatValue(step.Value, e.mangle))

		case ssa.OpStore:
			fmt.Fprintf(&src.buf, "\t*(%s) = %s;\n", e.formatOperand(fx, step.Dst), e.formatOperand(fx, step.Src))

		case ssa.OpCast:
			vreg := fx.vreg(b, i)
			castType := strings.TrimSpace(e.fmt.declare(step.TargetType, ""))
			fmt.Fprintf(&src.buf, "\t%s = (%s)(%s);\n", e.fmt.declare(step.Result, vreg), castType, e.formatOperand(fx, step.CastOperand))

		case ssa.OpLoad:
			vreg := fx.vreg(b, i)
			fmt.Fprintf(&src.buf, "\t%s = *(%s);\n", e.fmt.declare(step.Result, vreg), e.formatOperand(fx, step.Src))

		case ssa.OpAddress:
			vreg := fx.vreg(b, i)
			typeName := strings.TrimSpace(e.fmt.declare(step.Result, ""))
			fmt.Fprintf(&src.buf, "\t%s = &(%s); /* %s */\n", e.fmt.declare(step.Result, vreg), e.mangle.name(step.AddressOf), typeName)

		case ssa.OpOffset:
			vreg := fx.vreg(b, i)
			fmt.Fprintf(&src.buf, "\t%s = &%s[%s]; /* (array = %s, offset = %s) */\n",
				e.fmt.declare(step.Result, vreg),
				e.formatOperand(fx, step.Array),
				e.formatOperand(fx, step.Index),
				e.operandTypeName(fx, step.Array),
				e.operandTypeName(fx, step.Index),
			)

		case ssa.OpMember:
			vreg := fx.vreg(b, i)
			objType := ssa.OperandType(fx.sym, step.Object)
			fieldName := "?"
			if objType != nil && objType.Kind == ssa.TyPointer && objType.Target != nil && step.FieldIndex < len(objType.Target.Fields) {
				fieldName = objType.Target.Fields[step.FieldIndex].Name
			}
			fmt.Fprintf(&src.buf, "\t%s = &%s->%s;\n", e.fmt.declare(step.Result, vreg), e.formatOperand(fx, step.Object), fieldName)

		case ssa.OpUnary:
			vreg := fx.vreg(b, i)
			operand := e.formatOperand(fx, step.UnaryOperand)
			if step.UnaryOp == ssa.UnAbs {
				fmt.Fprintf(&src.buf, "\t%s = ctu_abs(%s);\n", e.fmt.declare(step.Result, vreg), operand)
			} else {
				fmt.Fprintf(&src.buf, "\t%s = (%s %s);\n", e.fmt.declare(step.Result, vreg), unarySymbol(step.UnaryOp), operand)
			}

		case ssa.OpBinary:
			vreg := fx.vreg(b, i)
			fmt.Fprintf(&src.buf, "\t%s = (%s %s %s);\n",
				e.fmt.declare(step.Result, vreg),
				e.formatOperand(fx, step.Lhs),
				binarySymbol(step.BinaryOp),
				e.formatOperand(fx, step.Rhs),
			)

		case ssa.OpCompare:
			vreg := fx.vreg(b, i)
			fmt.Fprintf(&src.buf, "\t%s = (%s %s %s);\n",
				e.fmt.declare(step.Result, vreg),
				e.formatOperand(fx, step.Lhs),
				compareSymbol(step.CompareOp),
				e.formatOperand(fx, step.Rhs),
			)

		case ssa.OpCall:
			args := make([]string, len(step.Args))
			for argIdx, a := range step.Args {
				args[argIdx] = e.formatOperand(fx, a)
			}
			fmt.Fprint(&src.buf, "\t")
			if step.Result != nil && step.Result.Kind != ssa.TyUnit && step.Result.Kind != ssa.TyEmpty {
				vreg := fx.vreg(b, i)
				fmt.Fprintf(&src.buf, "%s = ", e.fmt.declare(step.Result, vreg))
			}
			fmt.Fprintf(&src.buf, "%s(%s);\n", e.formatOperand(fx, step.Target), strings.Join(args, ", "))

		case ssa.OpJump:
			fmt.Fprintf(&src.buf, "\tgoto %s;\n", fx.label(step.JumpTarget))

		case ssa.OpBranch:
			fmt.Fprintf(&src.buf, "\tif (%s) { goto %s; }", e.formatOperand(fx, step.Cond), fx.label(step.Then))
			if step.Else != nil {
				fmt.Fprintf(&src.buf, " else { goto %s; }", fx.label(step.Else))
			}
			fmt.Fprint(&src.buf, "\n")

		case ssa.OpReturn:
			if operandCantReturn(step.ReturnValue) {
				fmt.Fprint(&src.buf, "\treturn;\n")
			} else {
				fmt.Fprintf(&src.buf, "\treturn %s;\n", e.formatOperand(fx, step.ReturnValue))
			}

		default:
			err := xerrors.Errorf("emit: symbol %q opcode %s: %w", fx.sym.Name, step.Op, errUnhandledOpcode)
			e.sink.Notify(diag.Internal, nil, "%s", err)
		}
	}

	fmt.Fprintf(&src.buf, "} /* end %s */\n", fx.label(b))
}

// flush writes every produced file through fs, in a stable, sorted-by-path
// order (spec.md §5's determinism guarantee).
func (e *emitter) flush(fs vfs.FS) (Result, error) {
	var files []*file
	if e.single {
		files = []*file{e.singleHeader, e.singleSource}
	} else {
		for _, f := range e.headers {
			files = append(files, f)
		}
		for _, f := range e.sources {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })

	result := Result{}
	for _, f := range files {
		if err := fs.CreateFile(f.path); err != nil {
			return Result{}, err
		}
		w, err := fs.OpenForWrite(f.path)
		if err != nil {
			return Result{}, err
		}
		if _, err := w.Write(f.buf.Bytes()); err != nil {
			return Result{}, err
		}
		if err := w.Close(); err != nil {
			return Result{}, err
		}
		result.Paths = append(result.Paths, f.path)
	}
	return result, nil
}

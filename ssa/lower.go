package ssa

import (
	"fmt"

	"github.com/cthulhu-lang/cthulhuc/diag"
	"github.com/cthulhu-lang/cthulhuc/hir"
	"github.com/cthulhu-lang/cthulhuc/internal/names"
)

// lowerer is the per-program lowering context (spec §4.3 "Program
// Lowering"). It owns the type interner, the builder, and the lookup maps
// from HIR declaration identity to the SSA symbol forward-declared for it
// — mirroring ssa_compile_t's globals/functions/types maps in the
// reference compiler, kept as explicit fields rather than ambient globals
// per the §9 design note.
type lowerer struct {
	interner *Interner
	builder  *Builder
	sink     diag.Sink

	prog *Program

	globals   map[*hir.Node]*Symbol
	functions map[*hir.Node]*Symbol

	locals map[*hir.Node]int // valid only while lowering the current function
	params map[*hir.Node]int

	moduleOf map[*Symbol]*Module

	strings     map[string]*Symbol
	stringNames names.Counter
}

// Lower walks the given top-level HIR modules (spec §4.3: "Given a map of
// top-level HIR module declarations") and returns the SSA Program. Modules
// are processed in the order given, which the caller must already have
// made stable (spec §4.3 step 2: "for every module in a stable order").
func Lower(sink diag.Sink, mods []*hir.Node) *Program {
	lw := &lowerer{
		interner:  NewInterner(),
		builder:   NewBuilder(),
		sink:      sink,
		prog:      NewProgram(),
		globals:   make(map[*hir.Node]*Symbol),
		functions: make(map[*hir.Node]*Symbol),
		moduleOf:  make(map[*Symbol]*Module),
		strings:   make(map[string]*Symbol),
	}

	// Forward declaration pass (step 2): walk the module tree once,
	// creating stubs for every global/function/type before any body is
	// lowered, so forward references resolve.
	for _, m := range mods {
		lw.prog.Modules = append(lw.prog.Modules, lw.forwardModule(m))
	}

	// Definition pass for globals (step 3).
	for hirGlobal, sym := range lw.globals {
		lw.defineGlobal(hirGlobal, sym)
	}

	// Definition pass for functions (step 4).
	for hirFn, sym := range lw.functions {
		lw.defineFunction(hirFn, sym)
	}

	return lw.prog
}

// forwardModule creates SSA stubs for one HIR module's own declarations,
// then recurses into its child modules (SPEC_FULL.md §4: nested module
// tree, mirroring forward_module in the reference compiler).
func (lw *lowerer) forwardModule(m *hir.Node) *Module {
	mod := &Module{Name: m.Name, Path: m.Path}

	for _, g := range m.Globals {
		sym := lw.forwardGlobal(g)
		mod.Globals = append(mod.Globals, sym)
		lw.globals[g] = sym
		lw.moduleOf[sym] = mod
	}
	for _, f := range m.Functions {
		sym := lw.forwardFunction(f)
		mod.Functions = append(mod.Functions, sym)
		lw.functions[f] = sym
		lw.moduleOf[sym] = mod
	}
	for _, t := range m.Types {
		mod.Types = append(mod.Types, lw.interner.Intern(t))
	}

	for _, c := range m.Children {
		mod.Children = append(mod.Children, lw.forwardModule(c))
	}

	return mod
}

func (lw *lowerer) forwardGlobal(g *hir.Node) *Symbol {
	return &Symbol{
		Kind:       SymGlobal,
		Name:       g.Name,
		LinkName:   g.LinkName,
		Linkage:    Linkage(g.Linkage),
		Visibility: Visibility(g.Visibility),
		Type:       lw.interner.Intern(g.Type),
		Storage:    lw.storageOf(g),
	}
}

func (lw *lowerer) forwardFunction(f *hir.Node) *Symbol {
	sym := &Symbol{
		Kind:       SymFunction,
		Name:       f.Name,
		LinkName:   f.LinkName,
		Linkage:    Linkage(f.Linkage),
		Visibility: Visibility(f.Visibility),
		Type:       lw.interner.Intern(f.Type),
	}
	sym.Locals = make([]Local, len(f.Locals))
	for i, l := range f.Locals {
		sym.Locals[i] = Local{Name: l.Name, Storage: lw.storageOf(l)}
	}
	sym.Params = make([]Param, len(f.ParamList))
	for i, p := range f.ParamList {
		sym.Params[i] = Param{Name: p.Name, Type: lw.interner.Intern(p.Type)}
	}
	return sym
}

func (lw *lowerer) storageOf(decl *hir.Node) Storage {
	return Storage{
		Element: lw.interner.Intern(decl.Storage.Element),
		Count:   decl.Storage.Count,
		Quals: Quals{
			Const:    decl.Storage.Const,
			Volatile: decl.Storage.Volatile,
			Atomic:   decl.Storage.Atomic,
		},
	}
}

// defineGlobal lowers a global's initializer into its entry block (spec
// §4.3 step 3).
func (lw *lowerer) defineGlobal(g *hir.Node, sym *Symbol) {
	lw.builder.BeginSymbol(sym)
	defer lw.builder.EndSymbol()

	var value Operand
	if g.Body != nil {
		value = lw.compileExpr(sym, g.Body)
	} else {
		value = Imm(NewNoInit(sym.Type))
	}
	lw.builder.AddStep(Step{Op: OpReturn, Result: sym.Type, ReturnValue: value})
}

// defineFunction lowers a function body (spec §4.3 step 4). Imported
// functions have no body and are skipped (spec §8: "∀ Symbol S with
// linkage=import, S has no blocks and no value body").
func (lw *lowerer) defineFunction(f *hir.Node, sym *Symbol) {
	if f.Body == nil {
		if sym.Linkage != LinkImport {
			panic(fmt.Sprintf("ssa: function %q has no body but linkage is not import", sym.Name))
		}
		sym.Blocks = nil
		sym.Entry = nil
		return
	}

	lw.locals = make(map[*hir.Node]int, len(f.Locals))
	for i, l := range f.Locals {
		lw.locals[l] = i
	}
	lw.params = make(map[*hir.Node]int, len(f.ParamList))
	for i, p := range f.ParamList {
		lw.params[p] = i
	}

	lw.builder.BeginSymbol(sym)
	lw.compileStmt(sym, f.Body)
	lw.builder.EndSymbol()
}

// internString returns the shared synthetic global for an equal-bytes
// string literal, creating it (and appending it to the owning module) on
// first occurrence (spec §4.3 step 5).
func (lw *lowerer) internString(owner *Symbol, n *hir.Node) *Symbol {
	key := string(n.String)
	if sym, ok := lw.strings[key]; ok {
		return sym
	}

	elemType := lw.interner.Intern(n.Type.Target)
	strType := lw.interner.Intern(n.Type)
	value := NewStringValue(strType, n.String)

	sym := &Symbol{
		Kind:       SymGlobal,
		Name:       fmt.Sprintf("ANON%s_string", lw.stringNames.Next()),
		Linkage:    LinkModule,
		Visibility: VisPrivate,
		Type:       strType,
		Storage: Storage{
			Element: elemType,
			Count:   uint64(len(n.String)) + 1,
			Quals:   Quals{Const: true},
		},
		Value: value,
	}
	lw.strings[key] = sym

	mod := lw.moduleOf[owner]
	mod.Globals = append(mod.Globals, sym)
	lw.moduleOf[sym] = mod

	return sym
}

func (lw *lowerer) addDep(owner *Symbol, target *Symbol) {
	lw.prog.AddDep(owner, target)
}

package ssa

import "github.com/cthulhu-lang/cthulhuc/hir"

// compileExpr lowers one HIR expression to its single result operand
// (spec §4.3a "Expression-to-SSA lowering"). owner is the symbol currently
// under construction, needed only to record dependency edges and to locate
// the module a newly interned string global is appended to.
func (lw *lowerer) compileExpr(owner *Symbol, n *hir.Node) Operand {
	switch n.Kind {
	case hir.KindExprEmpty:
		return Empty()

	case hir.KindExprBool:
		return Imm(NewBoolValue(lw.interner.Intern(n.Type), n.Bool))

	case hir.KindExprDigit:
		return Imm(NewDigitValue(lw.interner.Intern(n.Type), n.Digit))

	case hir.KindExprString:
		sym := lw.internString(owner, n)
		lw.addDep(owner, sym)
		return Global(sym)

	case hir.KindExprName:
		return lw.compileName(owner, n)

	case hir.KindExprLoad:
		src := lw.compileExpr(owner, n.Operand)
		return lw.builder.AddStep(Step{Op: OpLoad, Result: lw.interner.Intern(n.Type), Src: src})

	case hir.KindExprAddress:
		target := n.Operand.Decl
		sym := lw.symbolFor(target)
		lw.addDep(owner, sym)
		return lw.builder.AddStep(Step{Op: OpAddress, Result: lw.interner.Intern(n.Type), AddressOf: sym})

	case hir.KindExprOffset:
		array := lw.compileExpr(owner, n.Expr)
		index := lw.compileExpr(owner, n.Offset)
		return lw.builder.AddStep(Step{Op: OpOffset, Result: lw.interner.Intern(n.Type), Array: array, Index: index})

	case hir.KindExprMember:
		object := lw.compileExpr(owner, n.Object)
		idx := fieldIndex(n.Object.Type, n.Field)
		return lw.builder.AddStep(Step{Op: OpMember, Result: lw.interner.Intern(n.Type), Object: object, FieldIndex: idx})

	case hir.KindExprCast:
		operand := lw.compileExpr(owner, n.Operand)
		target := lw.interner.Intern(n.CastType)
		return lw.builder.AddStep(Step{Op: OpCast, Result: target, CastOperand: operand, TargetType: target})

	case hir.KindExprUnary:
		operand := lw.compileExpr(owner, n.Operand)
		return lw.builder.AddStep(Step{Op: OpUnary, Result: lw.interner.Intern(n.Type), UnaryOp: UnaryOp(n.Unary), UnaryOperand: operand})

	case hir.KindExprBinary:
		lhs := lw.compileExpr(owner, n.Lhs)
		rhs := lw.compileExpr(owner, n.Rhs)
		return lw.builder.AddStep(Step{Op: OpBinary, Result: lw.interner.Intern(n.Type), BinaryOp: BinaryOp(n.Binary), Lhs: lhs, Rhs: rhs})

	case hir.KindExprCompare:
		lhs := lw.compileExpr(owner, n.Lhs)
		rhs := lw.compileExpr(owner, n.Rhs)
		return lw.builder.AddStep(Step{Op: OpCompare, Result: lw.interner.Intern(n.Type), CompareOp: CompareOp(n.Compare), Lhs: lhs, Rhs: rhs})

	case hir.KindExprCall:
		callee := lw.compileExpr(owner, n.Callee)
		args := make([]Operand, len(n.Args))
		for i, a := range n.Args {
			args[i] = lw.compileExpr(owner, a)
		}
		return lw.builder.AddStep(Step{Op: OpCall, Result: lw.interner.Intern(n.Type), Target: callee, Args: args})

	default:
		panic("ssa: not an expression node")
	}
}

// compileName resolves a KindExprName reference: a global or function
// contributes a dependency edge and a Global/Function operand; a local or
// param resolves through the per-function index maps populated by
// defineFunction (spec §4.3a: "A name that refers to a global or function
// becomes global/function").
func (lw *lowerer) compileName(owner *Symbol, n *hir.Node) Operand {
	switch n.Decl.Kind {
	case hir.KindGlobal:
		sym := lw.globals[n.Decl]
		lw.addDep(owner, sym)
		return Global(sym)
	case hir.KindFunction:
		sym := lw.functions[n.Decl]
		lw.addDep(owner, sym)
		return Function(sym)
	case hir.KindLocal:
		idx, ok := lw.locals[n.Decl]
		if !ok {
			panic("ssa: local not found: " + n.Decl.Name)
		}
		return LocalOperand(idx)
	case hir.KindParam:
		idx, ok := lw.params[n.Decl]
		if !ok {
			panic("ssa: param not found: " + n.Decl.Name)
		}
		return ParamOperand(idx)
	default:
		panic("ssa: name does not refer to a global/function/local/param")
	}
}

func (lw *lowerer) symbolFor(decl *hir.Node) *Symbol {
	switch decl.Kind {
	case hir.KindGlobal:
		return lw.globals[decl]
	case hir.KindFunction:
		return lw.functions[decl]
	default:
		panic("ssa: address-of target is not a global or function")
	}
}

// fieldIndex finds field's stable position within objectType's pointed-to
// record, by identity (spec §4.3a: "field_index is the record field's
// stable position"; reference: get_field_index).
func fieldIndex(objectType *hir.Node, field *hir.Node) int {
	record := objectType.Target
	for i, f := range record.Fields {
		if f == field {
			return i
		}
	}
	panic("ssa: field not found in record: " + field.Name)
}

// Package ssaopt implements the constant-folding/compile-time evaluation
// pass: a small abstract machine that evaluates SSA step sequences for
// global symbols, producing literal values and diagnosing use of
// uninitialized values, division by zero and modulo by zero (spec.md §4.4
// "Optimizer (Constant Evaluator)").
package ssaopt

import (
	"github.com/cthulhu-lang/cthulhuc/diag"
	"github.com/cthulhu-lang/cthulhuc/internal/bignum"
	"github.com/cthulhu-lang/cthulhuc/ssa"
)

// vm is the whole-program evaluator context: the diagnostic sink and the
// set of every global known to the program, so a load of another module's
// global can be evaluated on demand (reference: ssa_vm_t).
type vm struct {
	sink    diag.Sink
	globals map[*ssa.Symbol]bool
}

// scope is per-global evaluation state: a step-pointer-to-Value map, and
// the return slot that short-circuits further evaluation once set
// (reference: ssa_scope_t).
type scope struct {
	vm     *vm
	sym    *ssa.Symbol
	values map[*ssa.Step]*ssa.Value
	ret    *ssa.Value
}

// Evaluate computes symbol.Value for every global in prog by abstract
// interpretation of its entry block (spec §4.4 "Contract"). It is
// idempotent: a global whose Value is already set is left untouched, so
// calling Evaluate twice on the same Program is a no-op the second time
// (spec §8 "optimizer(optimizer(program)) == optimizer(program) when no
// cycles exist").
func Evaluate(sink diag.Sink, prog *ssa.Program) {
	v := &vm{sink: sink, globals: make(map[*ssa.Symbol]bool)}
	for _, mod := range prog.AllModules() {
		for _, g := range mod.Globals {
			v.globals[g] = true
		}
	}
	for g := range v.globals {
		v.evalGlobal(g)
	}
}

// evalGlobal evaluates one global's entry block, memoized by whether
// Value is already populated (reference: ssa_opt_global).
func (v *vm) evalGlobal(g *ssa.Symbol) {
	if g.Value != nil {
		return
	}
	if !v.globals[g] {
		panic("ssaopt: global " + g.Name + " not registered with this evaluation")
	}

	sc := &scope{vm: v, sym: g, values: make(map[*ssa.Step]*ssa.Value)}
	sc.evalBlock(g.Entry)
	if sc.ret == nil {
		panic("ssaopt: global " + g.Name + " failed to evaluate (no return)")
	}
	g.Value = sc.ret
}

// evalBlock interprets a global's entry block step by step, stopping at
// the first return (reference: ssa_opt_block).
func (sc *scope) evalBlock(b *ssa.Block) {
	for i := range b.Steps {
		step := &b.Steps[i]
		value := sc.evalStep(step)
		sc.values[step] = value
		if sc.ret != nil {
			return
		}
	}
}

// evalStep dispatches one step to its folding rule (spec §4.4 "Algorithm").
// Only value, load, unary, binary, compare, cast and return are folded; any
// other opcode (address, offset, member, call, ...) is reported as an
// Internal diagnostic and yields an uninitialized value.
func (sc *scope) evalStep(step *ssa.Step) *ssa.Value {
	switch step.Op {
	case ssa.OpValue:
		return step.Value
	case ssa.OpLoad:
		return sc.evalLoad(step)
	case ssa.OpUnary:
		return sc.evalUnary(step)
	case ssa.OpBinary:
		return sc.evalBinary(step)
	case ssa.OpCompare:
		return sc.evalCompare(step)
	case ssa.OpCast:
		return sc.evalCast(step)
	case ssa.OpReturn:
		return sc.evalReturn(step)
	default:
		sc.vm.sink.Notify(diag.Internal, nil, "unhandled opcode %s inside %q", step.Op, sc.sym.Name)
		return ssa.NewNoInit(step.Result)
	}
}

// evalOperand resolves an Operand to its folded Value (reference:
// ssa_opt_operand): imm is itself, reg looks up a prior step's fold, and
// global recursively evaluates (and memoizes) the referenced global.
func (sc *scope) evalOperand(op ssa.Operand) *ssa.Value {
	switch op.Kind {
	case ssa.OpEmpty:
		return nil
	case ssa.OpImm:
		return op.Imm
	case ssa.OpReg:
		return sc.values[&op.RegBlock.Steps[op.RegIndex]]
	case ssa.OpGlobal:
		sc.vm.evalGlobal(op.Symbol)
		return op.Symbol.Value
	default:
		sc.vm.sink.Notify(diag.Internal, nil, "unhandled operand kind inside %q", sc.sym.Name)
		return nil
	}
}

func (sc *scope) evalLoad(step *ssa.Step) *ssa.Value {
	if step.Src.Kind == ssa.OpGlobal {
		sc.vm.evalGlobal(step.Src.Symbol)
		return step.Src.Symbol.Value
	}
	sc.vm.sink.Notify(diag.Internal, nil, "unsupported load source inside %q", sc.sym.Name)
	return ssa.NewNoInit(step.Result)
}

func (sc *scope) evalReturn(step *ssa.Step) *ssa.Value {
	value := sc.evalOperand(step.ReturnValue)
	if value == nil {
		sc.vm.sink.Notify(diag.Internal, nil, "return value is empty inside %q", sc.sym.Name)
		value = ssa.NewNoInit(step.Result)
	}
	sc.ret = value
	return value
}

// checkInit reports UninitializedValueUsed and returns false if value has
// not been initialized (spec §4.4 "Failure semantics"; reference:
// check_init).
func (sc *scope) checkInit(value *ssa.Value) bool {
	if !value.Init {
		sc.vm.sink.Notify(diag.UninitializedValueUsed, nil, "use of uninitialized value inside %q", sc.sym.Name)
		return false
	}
	return true
}

func (sc *scope) evalUnary(step *ssa.Step) *ssa.Value {
	operand := sc.evalOperand(step.UnaryOperand)
	if !sc.checkInit(operand) {
		return operand
	}

	if step.UnaryOp == ssa.UnNot {
		return ssa.NewBoolValue(operand.Type, !operand.AsBool())
	}

	d := operand.AsDigit()
	var result *bignum.Int
	switch step.UnaryOp {
	case ssa.UnNeg:
		result = new(bignum.Int).Neg(d)
	case ssa.UnAbs:
		result = new(bignum.Int).Abs(d)
	case ssa.UnFlip:
		result = new(bignum.Int).Not(d)
	default:
		sc.vm.sink.Notify(diag.Internal, nil, "unhandled unary op inside %q", sc.sym.Name)
		return operand
	}
	return ssa.NewDigitValue(operand.Type, result)
}

// evalBinary constant-folds an arithmetic step over arbitrary-precision
// integers (spec §4.4 "Numeric semantics"). Division and modulo by zero
// diagnose and yield the left operand unchanged so evaluation can
// continue (spec §4.4 "Algorithm"). shl/shr use the integer value of the
// right operand and an arithmetic shift (spec §4.4).
func (sc *scope) evalBinary(step *ssa.Step) *ssa.Value {
	lhs := sc.evalOperand(step.Lhs)
	rhs := sc.evalOperand(step.Rhs)
	if !sc.checkInit(lhs) {
		return lhs
	}
	if !sc.checkInit(rhs) {
		return rhs
	}

	l, r := lhs.AsDigit(), rhs.AsDigit()
	resultType := step.Result

	switch step.BinaryOp {
	case ssa.BinAdd:
		return ssa.NewDigitValue(resultType, new(bignum.Int).Add(l, r))
	case ssa.BinSub:
		return ssa.NewDigitValue(resultType, new(bignum.Int).Sub(l, r))
	case ssa.BinMul:
		return ssa.NewDigitValue(resultType, new(bignum.Int).Mul(l, r))
	case ssa.BinDiv:
		if bignum.IsZero(r) {
			sc.vm.sink.Notify(diag.DivideByZero, nil, "division by zero inside %q", sc.sym.Name)
			return lhs
		}
		q, _ := bignum.DivMod(l, r)
		return ssa.NewDigitValue(resultType, q)
	case ssa.BinRem:
		if bignum.IsZero(r) {
			sc.vm.sink.Notify(diag.ModuloByZero, nil, "modulo by zero inside %q", sc.sym.Name)
			return lhs
		}
		_, rem := bignum.DivMod(l, r)
		return ssa.NewDigitValue(resultType, rem)
	case ssa.BinShl:
		return ssa.NewDigitValue(resultType, bignum.Shl(l, uint(r.Uint64())))
	case ssa.BinShr:
		return ssa.NewDigitValue(resultType, bignum.Shr(l, uint(r.Uint64())))
	case ssa.BinXor:
		return ssa.NewDigitValue(resultType, new(bignum.Int).Xor(l, r))
	case ssa.BinBitAnd:
		return ssa.NewDigitValue(resultType, new(bignum.Int).And(l, r))
	case ssa.BinBitOr:
		return ssa.NewDigitValue(resultType, new(bignum.Int).Or(l, r))
	default:
		sc.vm.sink.Notify(diag.Internal, nil, "unhandled binary op inside %q", sc.sym.Name)
		return lhs
	}
}

func (sc *scope) evalCompare(step *ssa.Step) *ssa.Value {
	lhs := sc.evalOperand(step.Lhs)
	rhs := sc.evalOperand(step.Rhs)
	if !sc.checkInit(lhs) {
		return lhs
	}
	if !sc.checkInit(rhs) {
		return rhs
	}

	l, r := lhs.AsDigit(), rhs.AsDigit()
	cmp := l.Cmp(r)

	var result bool
	switch step.CompareOp {
	case ssa.CmpEq:
		result = cmp == 0
	case ssa.CmpNeq:
		result = cmp != 0
	case ssa.CmpLt:
		result = cmp < 0
	case ssa.CmpLe:
		result = cmp <= 0
	case ssa.CmpGt:
		result = cmp > 0
	case ssa.CmpGe:
		result = cmp >= 0
	default:
		sc.vm.sink.Notify(diag.Internal, nil, "unhandled compare op inside %q", sc.sym.Name)
	}
	return ssa.NewBoolValue(step.Result, result)
}

// evalCast performs a type-directed conversion (spec §4.4 "Algorithm":
// "cast → perform a type-directed conversion"). digit->digit preserves the
// bigint, digit->opaque lifts into an opaque literal, pointer<->opaque
// copies the relative or literal payload as-is (reference:
// cast_to_opaque/cast_to_pointer/cast_to_digit).
func (sc *scope) evalCast(step *ssa.Step) *ssa.Value {
	value := sc.evalOperand(step.CastOperand)
	target := step.TargetType

	switch target.Kind {
	case ssa.TyOpaque:
		switch value.Type.Kind {
		case ssa.TyOpaque:
			return value
		case ssa.TyDigit:
			return ssa.NewOpaqueLiteral(target, value.AsDigit())
		default:
			sc.vm.sink.Notify(diag.Internal, nil, "unhandled cast source type to opaque inside %q", sc.sym.Name)
			return value
		}

	case ssa.TyPointer:
		switch value.Kind {
		case ssa.ValLiteral:
			lit := &ssa.Value{Type: target, Init: true, Kind: ssa.ValLiteral, Bool: value.Bool, Digit: value.Digit, Data: value.Data}
			return lit
		case ssa.ValRelative:
			return ssa.NewRelative(target, value.Relative)
		default:
			sc.vm.sink.Notify(diag.Internal, nil, "unhandled value kind in cast to pointer inside %q", sc.sym.Name)
			return value
		}

	case ssa.TyDigit:
		switch value.Type.Kind {
		case ssa.TyOpaque, ssa.TyDigit:
			return value
		default:
			sc.vm.sink.Notify(diag.Internal, nil, "unhandled cast source type to digit inside %q", sc.sym.Name)
			return value
		}

	default:
		sc.vm.sink.Notify(diag.Internal, nil, "unhandled cast target type inside %q", sc.sym.Name)
		return value
	}
}

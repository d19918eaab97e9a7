package c89

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cthulhu-lang/cthulhuc/diag"
	"github.com/cthulhu-lang/cthulhuc/ssa"
)

// formatter turns SSA types, storage descriptors and operator sub-opcodes
// into C89 declarator text (spec.md §4.5 "Type formatting", "Value
// printing"; reference: format_symbol/c89_format_type/c89_format_storage in
// emit.c, whose own bodies were not present in the retrieved source — the
// declarator-building rules below are grounded on the call sites that are
// present (define_enum, define_record, write_locals, c89_proto_function)
// plus the stdint-family Width enumerators already modeled in
// ssa.Width).
type formatter struct {
	sink diag.Sink
}

// qualPrefix renders a Quals set as a C qualifier prefix. Atomic has no
// C89 representation, so it is dropped and reported once per occurrence
// as an UnsupportedAtomic warning (SPEC_FULL.md §4.5, spec.md §7
// taxonomy) rather than emitting invalid syntax.
func (f *formatter) qualPrefix(q ssa.Quals) string {
	var b strings.Builder
	if q.Const {
		b.WriteString("const ")
	}
	if q.Volatile {
		b.WriteString("volatile ")
	}
	if q.Atomic {
		f.sink.Notify(diag.UnsupportedAtomic, nil, "atomic qualifier has no C89 representation; emitting without it")
	}
	return b.String()
}

// digitName maps a digit Type's sign/width to its <stdint.h>/<stddef.h>
// spelling.
func digitName(sign ssa.Sign, width ssa.Width) string {
	u := sign == ssa.Unsigned
	switch width {
	case ssa.WChar:
		if u {
			return "unsigned char"
		}
		return "signed char"
	case ssa.WShort:
		return signedName(u, "short")
	case ssa.WInt:
		return signedName(u, "int")
	case ssa.WLong:
		return signedName(u, "long")
	case ssa.WSize:
		if u {
			return "size_t"
		}
		return "ptrdiff_t"
	case ssa.WPtr:
		return signedName(u, "intptr_t")
	case ssa.WMax:
		return signedName(u, "intmax_t")
	case ssa.WFast8:
		return signedName(u, "int_fast8_t")
	case ssa.WFast16:
		return signedName(u, "int_fast16_t")
	case ssa.WFast32:
		return signedName(u, "int_fast32_t")
	case ssa.WFast64:
		return signedName(u, "int_fast64_t")
	case ssa.WLeast8:
		return signedName(u, "int_least8_t")
	case ssa.WLeast16:
		return signedName(u, "int_least16_t")
	case ssa.WLeast32:
		return signedName(u, "int_least32_t")
	case ssa.WLeast64:
		return signedName(u, "int_least64_t")
	case ssa.W8:
		return signedName(u, "int8_t")
	case ssa.W16:
		return signedName(u, "int16_t")
	case ssa.W32:
		return signedName(u, "int32_t")
	case ssa.W64:
		return signedName(u, "int64_t")
	default:
		panic("emit/c89: unknown digit width")
	}
}

func signedName(unsigned bool, base string) string {
	if !unsigned {
		return base
	}
	if strings.HasPrefix(base, "int") {
		return "u" + base
	}
	return "unsigned " + base
}

// declare renders t as a full C declarator with name embedded at the
// correct position (e.g. a function-pointer or array-of-pointer
// declarator), following the usual right-left C declaration rule. An empty
// name yields a bare type expression suitable for a cast. A nil type (a
// closure declared with no result) renders as void.
func (f *formatter) declare(t *ssa.Type, name string) string {
	if t == nil {
		return join("void", name)
	}
	switch t.Kind {
	case ssa.TyEmpty, ssa.TyUnit:
		return join(f.qualPrefix(t.Quals)+"void", name)
	case ssa.TyBool:
		return join(f.qualPrefix(t.Quals)+"bool", name)
	case ssa.TyDigit:
		return join(f.qualPrefix(t.Quals)+digitName(t.Sign, t.Width), name)
	case ssa.TyOpaque:
		return join(f.qualPrefix(t.Quals)+"void", "*"+name)
	case ssa.TyPointer:
		inner := "*" + f.qualPrefix(t.Quals) + name
		if t.Target.Kind == ssa.TyClosure {
			return f.declareClosure(t.Target, "("+inner+")")
		}
		return f.declare(t.Target, inner)
	case ssa.TyClosure:
		return f.declareClosure(t, name)
	case ssa.TyStruct:
		return join(f.qualPrefix(t.Quals)+"struct "+t.Name, name)
	case ssa.TyUnion:
		return join(f.qualPrefix(t.Quals)+"union "+t.Name, name)
	case ssa.TyEnum:
		return join(f.qualPrefix(t.Quals)+t.Name+"_underlying_t", name)
	default:
		panic("emit/c89: unknown type kind")
	}
}

func (f *formatter) declareClosure(t *ssa.Type, name string) string {
	params := f.params(t.Params, t.Variadic)
	return f.declare(t.Result, name+"("+params+")")
}

func join(typeText, name string) string {
	if name == "" {
		return typeText
	}
	return typeText + " " + name
}

// params renders a closure's parameter list, "void" for an empty
// non-variadic list (reference: c89_format_params, not present in the
// retrieved source — grounded on the closure.params/variadic fields it is
// called with from c89_proto_function/c89_define_function).
func (f *formatter) params(params []ssa.Param, variadic bool) string {
	if len(params) == 0 && !variadic {
		return "void"
	}
	parts := make([]string, 0, len(params)+1)
	for _, p := range params {
		parts = append(parts, f.declare(p.Type, p.Name))
	}
	if variadic {
		parts = append(parts, "...")
	}
	return strings.Join(parts, ", ")
}

// storageDecl renders a Storage slot (global, local) as a full C
// declaration, expressing Count>0 as a fixed-size array declarator
// (reference: c89_format_storage, not present in the retrieved source;
// grounded on the {element_type, count, quals} shape spec.md §3 assigns
// Storage and on write_locals/write_global's call sites).
func (f *formatter) storageDecl(s ssa.Storage, name string) string {
	full := name
	if s.Count > 0 {
		full = fmt.Sprintf("%s[%d]", name, s.Count)
	}
	return f.qualPrefix(s.Quals) + f.declare(s.Element, full)
}

// localName is the C identifier for local index idx (SPEC_FULL.md §4
// "local_<name>/l_<name> naming fallback": a syntactically-named local
// gets the l_ prefix; a compiler-synthesized temporary with no name falls
// back to local_<index>).
func localName(idx int, local ssa.Local) string {
	if local.Name != "" {
		return "l_" + local.Name
	}
	return "local_" + strconv.Itoa(idx)
}

// paramName is the C identifier for parameter index idx.
func paramName(idx int, p ssa.Param) string {
	if p.Name != "" {
		return p.Name
	}
	return "param_" + strconv.Itoa(idx)
}

// namespace renders a module's logical, dotted path as a C++ namespace
// path (reference: get_namespace in emit.c).
func namespace(mod *ssa.Module) string {
	ns := strings.ReplaceAll(mod.Path, ".", "::")
	return strings.ReplaceAll(ns, "-", "_")
}

func unarySymbol(op ssa.UnaryOp) string {
	switch op {
	case ssa.UnNeg:
		return "-"
	case ssa.UnFlip:
		return "~"
	case ssa.UnNot:
		return "!"
	default:
		panic("emit/c89: unknown unary op")
	}
}

func binarySymbol(op ssa.BinaryOp) string {
	switch op {
	case ssa.BinAdd:
		return "+"
	case ssa.BinSub:
		return "-"
	case ssa.BinMul:
		return "*"
	case ssa.BinDiv:
		return "/"
	case ssa.BinRem:
		return "%"
	case ssa.BinShl:
		return "<<"
	case ssa.BinShr:
		return ">>"
	case ssa.BinXor:
		return "^"
	case ssa.BinBitAnd:
		return "&"
	case ssa.BinBitOr:
		return "|"
	case ssa.BinAnd:
		return "&&"
	case ssa.BinOr:
		return "||"
	default:
		panic("emit/c89: unknown binary op")
	}
}

func compareSymbol(op ssa.CompareOp) string {
	switch op {
	case ssa.CmpEq:
		return "=="
	case ssa.CmpNeq:
		return "!="
	case ssa.CmpLt:
		return "<"
	case ssa.CmpLe:
		return "<="
	case ssa.CmpGt:
		return ">"
	case ssa.CmpGe:
		return ">="
	default:
		panic("emit/c89: unknown compare op")
	}
}

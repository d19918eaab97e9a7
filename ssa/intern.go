package ssa

import "github.com/cthulhu-lang/cthulhuc/hir"

// Interner maps an HIR type node to its canonical SSA Type, memoizing by
// HIR identity so that type_intern(t) == type_intern(t) for equal HIR
// references (spec §8 "Round-trip & idempotence", §4.1 "Contract": "The
// interner is idempotent").
type Interner struct {
	cache map[*hir.Node]*Type
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{cache: make(map[*hir.Node]*Type)}
}

// Intern returns the canonical *Type for an HIR type node, creating and
// caching it on first use. Cycles in recursive aggregate types are broken
// by the placeholder-then-fill-in pattern (spec §4.1 "Algorithm", §9
// design note): an empty Type is inserted into the cache before recursing
// into fields, then mutated in place once the real payload is computed, so
// references taken during the recursive call still resolve correctly.
func (in *Interner) Intern(n *hir.Node) *Type {
	if n == nil {
		return nil
	}
	if t, ok := in.cache[n]; ok {
		return t
	}

	placeholder := NewEmpty(n.Name, quals(n.Storage))
	in.cache[n] = placeholder

	result := in.create(n)
	placeholder.fillFrom(result)
	return placeholder
}

func quals(s hir.Storage) Quals {
	return Quals{Const: s.Const, Volatile: s.Volatile, Atomic: s.Atomic}
}

func (in *Interner) create(n *hir.Node) *Type {
	q := quals(n.Storage)
	switch n.Kind {
	case hir.KindTypeEmpty:
		return NewEmpty(n.Name, q)
	case hir.KindTypeUnit:
		return NewUnit(n.Name, q)
	case hir.KindTypeBool:
		return NewBool(n.Name, q)
	case hir.KindTypeDigit:
		return NewDigit(n.Name, q, Sign(n.Sign), Width(n.Width))
	case hir.KindTypeOpaque:
		return NewOpaque(n.Name, q)
	case hir.KindTypeReference:
		return NewPointer(n.Name, q, in.Intern(n.Target), 1)
	case hir.KindTypePointer, hir.KindTypeArray:
		return NewPointer(n.Name, q, in.Intern(n.Target), n.Length)
	case hir.KindTypeClosure:
		params := make([]Param, len(n.Params))
		for i, p := range n.Params {
			params[i] = Param{Name: p.Name, Type: in.Intern(p.Type)}
		}
		return NewClosure(n.Name, q, params, in.Intern(n.Result), n.Variadic)
	case hir.KindTypeStruct:
		return NewStruct(n.Name, q, in.fields(n))
	case hir.KindTypeUnion:
		return NewUnion(n.Name, q, in.fields(n))
	case hir.KindTypeEnum:
		underlying := in.Intern(n.Underlying)
		cases := make([]Case, len(n.Fields))
		for i, c := range n.Fields {
			cases[i] = Case{Name: c.Name, Value: c.Digit}
		}
		return NewEnum(n.Name, q, underlying, cases)
	default:
		panic("ssa: not a type node: " + n.Name)
	}
}

func (in *Interner) fields(n *hir.Node) []Field {
	fields := make([]Field, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = Field{Name: f.Name, Type: in.Intern(f.Type)}
	}
	return fields
}

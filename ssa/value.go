package ssa

import "github.com/cthulhu-lang/cthulhuc/internal/bignum"

// ValueKind distinguishes a Value's literal form from a relative
// (address-of-a-symbol) form (spec §3 "Value").
type ValueKind int

const (
	ValLiteral ValueKind = iota
	ValRelative
)

// Value is the tagged variant carrying a Type, an Init flag, and either a
// literal payload or a relative reference (spec §3 "Value"). Invariant:
// literal.kind matches Type.kind — enforced by the constructors below
// rather than at every read site.
type Value struct {
	Type  *Type
	Init  bool
	Kind  ValueKind
	Bool  bool
	Digit *bignum.Int // also used for Opaque literals (integer-as-pointer)
	Data  []*Value    // aggregate/pointer (string) initializers

	// ValRelative: a pointer-typed value whose target is a symbol.
	Relative *Symbol
}

// mustKind panics if t.Kind != want; constructing a Value whose kind
// disagrees with its Type is a precondition violation (spec §4.1 "Errors").
func mustKind(t *Type, want TypeKind) {
	if t.Kind != want {
		panic("ssa: value kind does not match type kind " + want.String())
	}
}

// NewEmptyValue returns the value of the empty type.
func NewEmptyValue(t *Type) *Value {
	mustKind(t, TyEmpty)
	return &Value{Type: t, Init: true, Kind: ValLiteral}
}

// NewUnitValue returns the value of the unit type.
func NewUnitValue(t *Type) *Value {
	mustKind(t, TyUnit)
	return &Value{Type: t, Init: true, Kind: ValLiteral}
}

// NewBoolValue returns a literal bool Value.
func NewBoolValue(t *Type, v bool) *Value {
	mustKind(t, TyBool)
	return &Value{Type: t, Init: true, Kind: ValLiteral, Bool: v}
}

// NewDigitValue returns a literal digit Value carrying an arbitrary
// precision integer.
func NewDigitValue(t *Type, v *bignum.Int) *Value {
	mustKind(t, TyDigit)
	return &Value{Type: t, Init: true, Kind: ValLiteral, Digit: v}
}

// NewCharValue returns a literal digit Value holding a single byte, as used
// to build string-literal element values.
func NewCharValue(t *Type, c byte) *Value {
	return NewDigitValue(t, bignum.FromInt64(int64(c)))
}

// NewStringValue returns a literal aggregate Value: a pointer-to-digit Type
// of bounded, nonzero length, whose Data is one char Value per byte of text
// (spec §3 Value: "vector-of-Value for aggregate/pointer initializers").
func NewStringValue(t *Type, text []byte) *Value {
	mustKind(t, TyPointer)
	if t.Target.Kind != TyDigit {
		panic("ssa: string value requires pointer-to-digit type")
	}
	if t.Length == 0 || t.Length == UnboundedLength {
		panic("ssa: invalid string value length")
	}
	data := make([]*Value, len(text))
	for i, b := range text {
		data[i] = NewCharValue(t.Target, b)
	}
	return &Value{Type: t, Init: true, Kind: ValLiteral, Data: data}
}

// NewOpaqueLiteral returns a literal opaque Value carrying an
// integer-as-pointer payload.
func NewOpaqueLiteral(t *Type, v *bignum.Int) *Value {
	mustKind(t, TyOpaque)
	return &Value{Type: t, Init: true, Kind: ValLiteral, Digit: v}
}

// NewNoInit returns an uninitialized Value of the given type: reading it is
// reported by the optimizer as UninitializedValueUsed (spec §4.4).
func NewNoInit(t *Type) *Value {
	return &Value{Type: t, Init: false, Kind: ValLiteral}
}

// NewRelative returns a pointer-typed Value referring to sym by address
// (spec §3: "a relative reference (a pointer-typed value whose target is a
// symbol)").
func NewRelative(t *Type, sym *Symbol) *Value {
	mustKind(t, TyPointer)
	return &Value{Type: t, Init: true, Kind: ValRelative, Relative: sym}
}

// AsBool returns the Value's bool payload. Precondition: Kind == ValLiteral
// and Type.Kind == TyBool (spec §4.1 "Errors": reading the literal of a
// relative-valued Value, or vice versa, is a precondition violation).
func (v *Value) AsBool() bool {
	if v.Kind != ValLiteral || v.Type.Kind != TyBool {
		panic("ssa: value is not a literal bool")
	}
	return v.Bool
}

// AsDigit returns the Value's arbitrary-precision integer payload.
// Precondition: Kind == ValLiteral and Type.Kind is TyDigit or TyOpaque.
func (v *Value) AsDigit() *bignum.Int {
	if v.Kind != ValLiteral || (v.Type.Kind != TyDigit && v.Type.Kind != TyOpaque) {
		panic("ssa: value is not a literal digit")
	}
	return v.Digit
}

// Package ssa implements the Static Single-Assignment intermediate
// representation described by the data model: types, values, operands,
// steps, blocks, symbols, modules and the whole-program dependency graph.
//
// Following the Go idiom preferred for this repository over the source's
// own inheritance hierarchies, each category (Type, Value, Operand, Step)
// is a single struct with a Kind/Op tag and the union of payload fields
// for every variant, dispatched over with a type switch rather than
// virtual calls. This mirrors the reusable patterns go/ssa itself uses
// elsewhere (a Value interface with one concrete type per instruction
// would also work, but the tagged-struct form keeps construction,
// interning and the placeholder-then-fill-in cycle break in §4.1 a great
// deal simpler without runtime polymorphism buying anything here).
package ssa

import "github.com/cthulhu-lang/cthulhuc/internal/bignum"

// TypeKind tags the variant carried by a Type.
type TypeKind int

const (
	TyEmpty TypeKind = iota
	TyUnit
	TyBool
	TyDigit
	TyOpaque
	TyPointer
	TyClosure
	TyStruct
	TyUnion
	TyEnum
)

func (k TypeKind) String() string {
	switch k {
	case TyEmpty:
		return "empty"
	case TyUnit:
		return "unit"
	case TyBool:
		return "bool"
	case TyDigit:
		return "digit"
	case TyOpaque:
		return "opaque"
	case TyPointer:
		return "pointer"
	case TyClosure:
		return "closure"
	case TyStruct:
		return "struct"
	case TyUnion:
		return "union"
	case TyEnum:
		return "enum"
	default:
		return "?"
	}
}

// Sign is the signedness of a digit type.
type Sign int

const (
	Signed Sign = iota
	Unsigned
)

// Width is the width of a digit type. The named widths beyond the plain
// C ones (Char..Max) mirror the <stdint.h> families the C backend must be
// able to name: fastN, leastN and the bare fixed widths.
type Width int

const (
	WChar Width = iota
	WShort
	WInt
	WLong
	WSize
	WPtr
	WMax
	WFast8
	WFast16
	WFast32
	WFast64
	WLeast8
	WLeast16
	WLeast32
	WLeast64
	W8
	W16
	W32
	W64
)

// UnboundedLength marks a Pointer type as an unbounded array ("length ==
// usize::MAX" in the data model).
const UnboundedLength = ^uint64(0)

// Quals is the qualifier set carried by every Type (spec §3: "{const?,
// volatile?, atomic?}").
type Quals struct {
	Const    bool
	Volatile bool
	Atomic   bool
}

// Field is one named, typed member of a Struct/Union Type, or one case
// name/value pair is handled separately by Case.
type Field struct {
	Name string
	Type *Type
}

// Param is one parameter of a Closure Type or a function Symbol.
type Param struct {
	Name string
	Type *Type
}

// Case is one enumerator of an Enum Type: a name and its arbitrary
// precision value.
type Case struct {
	Name  string
	Value *bignum.Int
}

// Type is the tagged variant over every SSA type kind (spec §3 "Type").
// Every Type carries a display Name and a Quals set regardless of Kind.
type Type struct {
	Kind  TypeKind
	Name  string
	Quals Quals

	// TyDigit
	Sign  Sign
	Width Width

	// TyPointer. Length == 0 means "single object", Length ==
	// UnboundedLength means "unbounded", otherwise "array of Length".
	Target *Type
	Length uint64

	// TyClosure
	Params   []Param
	Result   *Type
	Variadic bool

	// TyStruct, TyUnion
	Fields []Field

	// TyEnum. Underlying is always a TyDigit type (invariant, §3).
	Underlying *Type
	Cases      []Case
}

// NewEmpty returns the placeholder/empty type used both for genuinely
// empty/void positions and as the cycle-breaking placeholder the interner
// installs before recursing into a recursive aggregate's fields (spec
// §4.1 "Algorithm").
func NewEmpty(name string, quals Quals) *Type {
	return &Type{Kind: TyEmpty, Name: name, Quals: quals}
}

// NewUnit returns the unit type.
func NewUnit(name string, quals Quals) *Type {
	return &Type{Kind: TyUnit, Name: name, Quals: quals}
}

// NewBool returns the bool type.
func NewBool(name string, quals Quals) *Type {
	return &Type{Kind: TyBool, Name: name, Quals: quals}
}

// NewDigit returns a digit type of the given sign and width.
func NewDigit(name string, quals Quals, sign Sign, width Width) *Type {
	return &Type{Kind: TyDigit, Name: name, Quals: quals, Sign: sign, Width: width}
}

// NewOpaque returns the opaque (untyped pointer-sized) type.
func NewOpaque(name string, quals Quals) *Type {
	return &Type{Kind: TyOpaque, Name: name, Quals: quals}
}

// NewPointer returns a pointer-to-target type. target must never itself be
// an unbounded pointer to an unbounded pointer (spec §3 invariant); callers
// are responsible for normalizing before calling this constructor.
func NewPointer(name string, quals Quals, target *Type, length uint64) *Type {
	if target.Kind == TyPointer && target.Length == UnboundedLength && length == UnboundedLength {
		panic("ssa: pointer-to-unbounded-pointer-to-unbounded is not normalized")
	}
	return &Type{Kind: TyPointer, Name: name, Quals: quals, Target: target, Length: length}
}

// NewClosure returns a function-signature type.
func NewClosure(name string, quals Quals, params []Param, result *Type, variadic bool) *Type {
	return &Type{Kind: TyClosure, Name: name, Quals: quals, Params: params, Result: result, Variadic: variadic}
}

// NewStruct returns a struct type with the given fields, in declaration order.
func NewStruct(name string, quals Quals, fields []Field) *Type {
	return &Type{Kind: TyStruct, Name: name, Quals: quals, Fields: fields}
}

// NewUnion returns a union type with the given fields.
func NewUnion(name string, quals Quals, fields []Field) *Type {
	return &Type{Kind: TyUnion, Name: name, Quals: quals, Fields: fields}
}

// NewEnum returns an enum type. underlying must be a digit type (spec §3
// invariant: "enum.underlying is always a digit type").
func NewEnum(name string, quals Quals, underlying *Type, cases []Case) *Type {
	if underlying.Kind != TyDigit {
		panic("ssa: enum underlying type must be a digit type")
	}
	return &Type{Kind: TyEnum, Name: name, Quals: quals, Underlying: underlying, Cases: cases}
}

// fillFrom overwrites the receiver's payload with src's, keeping the
// receiver's own pointer identity. This is the "mutate the placeholder
// in-place" half of the cycle-breaking pattern in §4.1: the interner
// inserts an empty *Type into its cache before recursing into a
// self-referential record's fields, then calls fillFrom once the real
// payload is known so every reference taken during recursion still
// resolves to the finished type.
func (t *Type) fillFrom(src *Type) {
	*t = *src
}

// IsDigit reports whether t is a digit type.
func (t *Type) IsDigit() bool { return t.Kind == TyDigit }

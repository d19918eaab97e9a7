// Package hir defines the minimal query contract the lowering pass needs
// from the resolved semantic tree (spec.md §6 "Input: HIR"). The real
// name-resolution stage that produces this tree is an out-of-scope
// collaborator (spec.md §1); this package is just the interface plus an
// in-memory implementation good enough to drive lowering end to end in
// tests. Field names follow the original resolver's own tree_t accessors
// (tree->cond, tree->then, tree->object/field, tree->callee/args, ...) so
// the lowering pass in package ssa reads the same way the reference
// compile_tree switch does.
package hir

import "github.com/cthulhu-lang/cthulhuc/internal/bignum"

// Kind tags the shape of a Node (spec.md §6: "kind tag").
type Kind int

const (
	KindModule Kind = iota
	KindTypeEmpty
	KindTypeUnit
	KindTypeBool
	KindTypeDigit
	KindTypeOpaque
	KindTypePointer
	KindTypeReference // single-object reference; lowers like a length-1 pointer
	KindTypeArray
	KindTypeClosure
	KindTypeStruct
	KindTypeUnion
	KindTypeEnum
	KindGlobal
	KindFunction
	KindParam
	KindField
	KindLocal

	// Expressions
	KindExprEmpty
	KindExprBool
	KindExprDigit
	KindExprString
	KindExprLoad
	KindExprName // reference to a global/function/local/param by Decl
	KindExprUnary
	KindExprBinary
	KindExprCompare
	KindExprCast
	KindExprAddress
	KindExprOffset
	KindExprMember
	KindExprCall

	// Statements
	KindStmtBlock
	KindStmtAssign
	KindStmtReturn
	KindStmtBranch
	KindStmtLoop
	KindStmtBreak
	KindStmtContinue
)

// Sign mirrors ssa.Sign for digit-typed nodes, kept separate so this
// package has no dependency on ssa.
type Sign int

const (
	Signed Sign = iota
	Unsigned
)

// Width mirrors ssa.Width for digit-typed nodes.
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

// Linkage mirrors ssa.Linkage.
type Linkage int

const (
	LinkImport Linkage = iota
	LinkModule
	LinkExport
	LinkEntryCLI
	LinkEntryGUI
)

// Visibility mirrors ssa.Visibility.
type Visibility int

const (
	VisPublic Visibility = iota
	VisPrivate
)

// Attrs is the attribute bundle spec.md §6 requires lowering be able to
// query off any declaration node: link_name, linkage, visibility.
type Attrs struct {
	LinkName   string
	Linkage    Linkage
	Visibility Visibility
}

// Storage is the storage descriptor spec.md §6 requires: element type,
// element count, qualifiers.
type Storage struct {
	Element  *Node
	Count    uint64
	Const    bool
	Volatile bool
	Atomic   bool
}

// UnaryOp/BinaryOp/CompareOp mirror the ssa package's opcodes; HIR carries
// operators as enum tags matching those semantics (spec.md §6).
type UnaryOp int

const (
	UnNeg UnaryOp = iota
	UnAbs
	UnFlip
	UnNot
)

type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinShl
	BinShr
	BinXor
	BinBitAnd
	BinBitOr
	BinAnd
	BinOr
)

type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNeq
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// Node is a single HIR tree node: declaration, type, expression or
// statement. The lowering pass only ever needs the fields below (spec.md
// §6); there is deliberately no interface-per-node-kind hierarchy the way a
// real resolver's AST would have, since lowering only ever switches on
// Kind.
type Node struct {
	Kind Kind
	Name string
	Type *Node // the node's own type, for expressions/decls
	Attrs
	Storage

	// Literals
	Bool   bool
	Digit  *bignum.Int
	String []byte

	// Type nodes
	Sign       Sign
	Width      Width
	Target     *Node // pointer/reference/array element type
	Length     uint64
	Params     []*Node
	Result     *Node
	Variadic   bool
	Fields     []*Node // struct/union fields, or enum cases (Node.Digit set per case)
	Underlying *Node    // enum underlying digit type

	// Declarations
	Locals []*Node
	ParamList []*Node
	Body      *Node // function body statement, or global initializer expr

	// Expressions, named after the original resolver's own tree_t fields.
	Decl     *Node // KindExprName: the referenced global/function/local/param
	DeclIndex int  // KindExprName: local/param index when Decl.Kind is Local/Param
	Unary    UnaryOp
	Binary   BinaryOp
	Compare  CompareOp
	Operand  *Node // KindExprUnary, KindExprAddress, KindExprLoad, KindExprCast
	Lhs, Rhs *Node // KindExprBinary, KindExprCompare
	CastType *Node // KindExprCast target type
	Expr     *Node // KindExprOffset: array expr
	Offset   *Node // KindExprOffset: index expr
	Object   *Node // KindExprMember: addressed struct/union expr
	Field    *Node // KindExprMember: the struct field declaration
	Callee   *Node // KindExprCall
	Args     []*Node

	// Statements
	Dst, Src   *Node   // KindStmtAssign
	Value      *Node   // KindStmtReturn (nil => bare return)
	Cond, Then *Node   // KindStmtBranch, KindStmtLoop
	Other      *Node   // KindStmtBranch (nil => no else arm)
	Stmts      []*Node // KindStmtBlock

	// KindModule
	Types     []*Node
	Globals   []*Node
	Functions []*Node
	Children  []*Node
	Path      string
}

// NewModule returns an empty module declaration node.
func NewModule(name, path string) *Node {
	return &Node{Kind: KindModule, Name: name, Path: path}
}

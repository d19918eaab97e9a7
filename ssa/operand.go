package ssa

// OperandKind tags the source of a value used at a step (spec §3
// "Operand").
type OperandKind int

const (
	OpEmpty OperandKind = iota
	OpImm
	OpReg
	OpLocal
	OpParam
	OpGlobal
	OpFunction
	OpBlock
)

// Operand is the tagged variant referring to a source of a value at a step.
type Operand struct {
	Kind OperandKind

	Imm *Value // OpImm

	// OpReg: a reference to the result of step Index within Block.
	RegBlock *Block
	RegIndex int

	Index int // OpLocal, OpParam

	Symbol *Symbol // OpGlobal, OpFunction

	Block *Block // OpBlock
}

// Empty returns the empty operand.
func Empty() Operand { return Operand{Kind: OpEmpty} }

// Imm returns an immediate-value operand.
func Imm(v *Value) Operand { return Operand{Kind: OpImm, Imm: v} }

// Reg returns an operand referring to the result register of the step at
// index within block.
func Reg(block *Block, index int) Operand {
	return Operand{Kind: OpReg, RegBlock: block, RegIndex: index}
}

// LocalOperand returns an operand referring to the function-local at index
// (named LocalOperand to avoid colliding with the Local type).
func LocalOperand(index int) Operand { return Operand{Kind: OpLocal, Index: index} }

// ParamOperand returns an operand referring to the function parameter at
// index (named ParamOperand to avoid colliding with the Param type).
func ParamOperand(index int) Operand { return Operand{Kind: OpParam, Index: index} }

// Global returns an operand referring to a global symbol.
func Global(sym *Symbol) Operand { return Operand{Kind: OpGlobal, Symbol: sym} }

// Function returns an operand referring to a function symbol.
func Function(sym *Symbol) Operand { return Operand{Kind: OpFunction, Symbol: sym} }

// BlockOperand returns an operand referring to a block (jump and branch
// steps hold their target Blocks directly; this variant exists for
// completeness with the data model and is the result operand that
// lowering a branch or loop statement returns).
func BlockOperand(b *Block) Operand { return Operand{Kind: OpBlock, Block: b} }

// IsEmpty reports whether op is the empty operand.
func (op Operand) IsEmpty() bool { return op.Kind == OpEmpty }

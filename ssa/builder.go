package ssa

import "github.com/cthulhu-lang/cthulhuc/internal/names"

// loopTarget records a loop's body/exit blocks, so nested break/continue
// statements can find their targets without ambient global state (§9 design
// note: "Ambient globals for the current module/symbol/block/loop stack
// become an explicit builder context passed by exclusive reference").
type loopTarget struct {
	body *Block
	exit *Block
}

// Builder is the per-symbol construction context (spec §4.2 "SSA
// Builder"). A Builder is used to build exactly one function-typed Symbol
// at a time; begin_symbol resets it for the next.
type Builder struct {
	sym     *Symbol
	current *Block
	names   names.Counter
	loops   []loopTarget
}

// NewBuilder returns a Builder with no symbol under construction.
func NewBuilder() *Builder {
	return &Builder{}
}

// BeginSymbol starts construction of sym: creates its entry block and
// resets the per-symbol block name counter (spec §4.2 "begin_symbol").
// A symbol is under construction at most once at a time (spec §4.2
// invariant); calling BeginSymbol again before the previous symbol is
// finished is a programming error.
func (b *Builder) BeginSymbol(sym *Symbol) {
	if b.sym != nil {
		panic("ssa: begin_symbol called while " + b.sym.Name + " is still under construction")
	}
	b.sym = sym
	b.names.Reset()
	b.loops = b.loops[:0]
	entry := newBlock("entry")
	sym.Blocks = append(sym.Blocks, entry)
	sym.Entry = entry
	b.current = entry
}

// EndSymbol finishes construction, leaving the Builder ready to start the
// next symbol.
func (b *Builder) EndSymbol() {
	b.sym = nil
	b.current = nil
}

// CurrentBlock returns the block steps are currently appended to.
func (b *Builder) CurrentBlock() *Block { return b.current }

// SetCurrentBlock redirects subsequent AddStep calls to block, without
// creating a new one. Used after NewBlock to continue emission there.
func (b *Builder) SetCurrentBlock(block *Block) { b.current = block }

// NewBlock creates a new block owned by the symbol under construction. If
// name is "", an auto-incremented numeric name is assigned from the
// per-symbol counter (spec §4.2: "unnamed blocks receive auto-incremented
// numeric names via a monotonic counter reset per symbol").
func (b *Builder) NewBlock(name string) *Block {
	if name == "" {
		name = b.names.Next()
	}
	blk := newBlock(name)
	b.sym.Blocks = append(b.sym.Blocks, blk)
	return blk
}

// AddStep appends step to the current block and returns a Reg operand
// referring to its result (spec §4.2 "add_step(step) -> reg_operand").
func (b *Builder) AddStep(step Step) Operand {
	return b.BlockPushStep(b.current, step)
}

// BlockPushStep appends step to an explicit block (spec §4.2
// "block_push_step(block, step) -> reg_operand"). Appending to a
// terminated block is a programming error (spec §4.2 "Failure semantics").
func (b *Builder) BlockPushStep(block *Block, step Step) Operand {
	idx := block.push(step)
	return Reg(block, idx)
}

// EnterLoop pushes a new loop target for nested break/continue handling
// (spec §4.2 "enter_loop(enter_block, exit_block)"). The parameter name in
// the spec is "enter_block"; body is the block break/continue re-enter or
// jump past.
func (b *Builder) EnterLoop(body, exit *Block) {
	b.loops = append(b.loops, loopTarget{body: body, exit: exit})
}

// LeaveLoop pops the innermost loop target (spec §4.2 "leave_loop()").
func (b *Builder) LeaveLoop() {
	if len(b.loops) == 0 {
		panic("ssa: leave_loop with no enclosing loop")
	}
	b.loops = b.loops[:len(b.loops)-1]
}

// BreakTarget returns the block a break statement jumps to. Calling this
// with no enclosing loop is a programming error (spec §4.2 "Failure
// semantics").
func (b *Builder) BreakTarget() *Block {
	if len(b.loops) == 0 {
		panic("ssa: break with no enclosing loop")
	}
	return b.loops[len(b.loops)-1].exit
}

// ContinueTarget returns the block a continue statement jumps to.
func (b *Builder) ContinueTarget() *Block {
	if len(b.loops) == 0 {
		panic("ssa: continue with no enclosing loop")
	}
	return b.loops[len(b.loops)-1].body
}

package ssa

import "github.com/cthulhu-lang/cthulhuc/hir"

// compileStmt lowers one HIR statement. Statements share compileExpr's
// single-result-operand shape for symmetry with the reference compiler's
// compile_tree, even though most statement results are discarded (spec
// §4.3a).
func (lw *lowerer) compileStmt(owner *Symbol, n *hir.Node) Operand {
	switch n.Kind {
	case hir.KindStmtBlock:
		for _, s := range n.Stmts {
			lw.compileStmt(owner, s)
		}
		return Empty()

	case hir.KindStmtAssign:
		dst := lw.compileExpr(owner, n.Dst)
		src := lw.compileExpr(owner, n.Src)
		return lw.builder.AddStep(Step{Op: OpStore, Dst: dst, Src: src})

	case hir.KindStmtReturn:
		var value Operand
		if n.Value != nil {
			value = lw.compileExpr(owner, n.Value)
		} else {
			value = Empty()
		}
		return lw.builder.AddStep(Step{Op: OpReturn, ReturnValue: value})

	case hir.KindStmtBranch:
		return lw.compileBranch(owner, n)

	case hir.KindStmtLoop:
		return lw.compileLoop(owner, n)

	case hir.KindStmtBreak:
		target := lw.builder.BreakTarget()
		return lw.builder.AddStep(Step{Op: OpJump, JumpTarget: target})

	case hir.KindStmtContinue:
		target := lw.builder.ContinueTarget()
		return lw.builder.AddStep(Step{Op: OpJump, JumpTarget: target})

	default:
		return lw.compileExpr(owner, n)
	}
}

// compileBranch lowers `if (cond) then [else other]` (spec §4.3a
// "Conditional statements"; reference: compile_branch). then/else/tail
// blocks are created, the arms are lowered into then/else and each arm
// that does not already end in a terminator (a return, break or continue)
// jumps to tail, then emission continues in tail.
func (lw *lowerer) compileBranch(owner *Symbol, n *hir.Node) Operand {
	cond := lw.compileExpr(owner, n.Cond)
	origin := lw.builder.CurrentBlock()

	tail := lw.builder.NewBlock("tail")
	then := lw.builder.NewBlock("then")
	var elseBlk *Block
	if n.Other != nil {
		elseBlk = lw.builder.NewBlock("other")
	}

	lw.builder.SetCurrentBlock(then)
	lw.compileStmt(owner, n.Then)
	if !lw.builder.CurrentBlock().Terminated() {
		lw.builder.AddStep(Step{Op: OpJump, JumpTarget: tail})
	}

	if n.Other != nil {
		lw.builder.SetCurrentBlock(elseBlk)
		lw.compileStmt(owner, n.Other)
		if !lw.builder.CurrentBlock().Terminated() {
			lw.builder.AddStep(Step{Op: OpJump, JumpTarget: tail})
		}
	}

	// Else is left nil when the source statement had no else arm (spec §3
	// Step: "else: block-or-empty"; §8 "Branch with empty other lowers
	// without the else { ... } clause"). Control falls through to tail
	// because tail was created immediately after origin, so it is the next
	// block emitted in the builder's creation order (spec §5 ordering
	// guarantee). A loop's condition branch always supplies a real tail
	// block here instead (see compileLoop), since a loop's false edge is a
	// genuine second arm, not an omitted one.
	lw.builder.SetCurrentBlock(origin)
	lw.builder.AddStep(Step{Op: OpBranch, Cond: cond, Then: then, Else: elseBlk})

	lw.builder.SetCurrentBlock(tail)
	return BlockOperand(tail)
}

// compileLoop lowers `while (cond) body` into three blocks: loop, body,
// tail (spec §4.3a "Loops lower as three blocks"; reference: compile_loop).
func (lw *lowerer) compileLoop(owner *Symbol, n *hir.Node) Operand {
	loop := lw.builder.NewBlock("loop")
	body := lw.builder.NewBlock("body")
	tail := lw.builder.NewBlock("tail")

	lw.builder.AddStep(Step{Op: OpJump, JumpTarget: loop})

	lw.builder.SetCurrentBlock(loop)
	cond := lw.compileExpr(owner, n.Cond)
	lw.builder.AddStep(Step{Op: OpBranch, Cond: cond, Then: body, Else: tail})

	lw.builder.EnterLoop(body, tail)
	lw.builder.SetCurrentBlock(body)
	lw.compileStmt(owner, n.Then)
	if !lw.builder.CurrentBlock().Terminated() {
		lw.builder.AddStep(Step{Op: OpJump, JumpTarget: loop})
	}
	lw.builder.LeaveLoop()

	lw.builder.SetCurrentBlock(tail)
	return BlockOperand(loop)
}

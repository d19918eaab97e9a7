package ssa

import (
	"fmt"

	"golang.org/x/xerrors"

	"github.com/cthulhu-lang/cthulhuc/diag"
)

// Sentinel causes for the invariant violations this checker can find,
// wrapped with xerrors.Errorf("%w", ...) at the call site so a later
// errors.Is/errors.As (or a frame-printing wrapper in the CLI) can walk the
// cause chain (SPEC_FULL.md §1 "Errors"; the same library
// golang-tools/internal/lsp/cache uses for its own error wrapping).
var (
	errMissingTerminator  = xerrors.New("block has no steps")
	errTerminatorNotFinal = xerrors.New("terminator step is not the block's last step")
	errNotTerminated      = xerrors.New("block does not end in a terminator")
	errImportHasBody      = xerrors.New("import-linkage symbol has blocks")
)

// sanity checks the quantified invariants from spec.md §8 over one
// Program, reporting any violation to sink as an Internal diagnostic
// rather than panicking — structural inconsistencies are always a bug in
// the core (spec §4.5 "Failure semantics"), never user-induced, but the
// caller still decides via the sink's error count whether to proceed
// (spec §7). This mirrors go/ssa's own sanity.go, generalized from a
// per-Function debugging pass into a whole-Program checker run after
// lowering.
type sanity struct {
	sink diag.Sink
	sym  *Symbol
}

// SanityCheck walks every function symbol in prog and validates block
// termination and import-linkage invariants. It returns the number of
// violations found (0 means the program passed).
func SanityCheck(sink diag.Sink, prog *Program) int {
	s := &sanity{sink: sink}
	n := 0
	for _, mod := range prog.AllModules() {
		for _, fn := range mod.Functions {
			s.sym = fn
			n += s.checkSymbol(fn)
		}
	}
	return n
}

// errorf wraps cause with the formatted detail via xerrors.Errorf("%w", ...)
// and reports the result to the sink as a single diag.Internal event.
func (s *sanity) errorf(cause error, format string, args ...any) int {
	err := xerrors.Errorf("ssa: symbol %s: %s: %w", s.sym.Name, fmt.Sprintf(format, args...), cause)
	s.sink.Notify(diag.Internal, nil, "%s", err)
	return 1
}

func (s *sanity) checkSymbol(sym *Symbol) int {
	n := 0
	if sym.IsImport() {
		if len(sym.Blocks) != 0 || sym.Entry != nil {
			n += s.errorf(errImportHasBody, "symbol has linkage=import")
		}
		return n
	}

	for _, b := range sym.Blocks {
		n += s.checkBlock(b)
	}
	return n
}

// checkBlock enforces "the last step is a terminator and no earlier step
// is a terminator" (spec §3 "Block" invariant, §8 quantified invariant).
func (s *sanity) checkBlock(b *Block) int {
	n := 0
	if len(b.Steps) == 0 {
		return s.errorf(errMissingTerminator, "block %s", b.Name)
	}
	for i, step := range b.Steps {
		last := i == len(b.Steps)-1
		if step.Op.IsTerminator() && !last {
			n += s.errorf(errTerminatorNotFinal, "block %s: %s at step %d", b.Name, step.Op, i)
		}
	}
	if !b.Steps[len(b.Steps)-1].Op.IsTerminator() {
		n += s.errorf(errNotTerminated, "block %s", b.Name)
	}
	return n
}

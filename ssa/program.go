package ssa

// Program is the lowering pass's result: every module plus the whole
// program's symbol dependency graph (spec §3 "Program (SSA result)").
type Program struct {
	Modules []*Module

	// deps maps a symbol to the set of symbols its body/initializer
	// directly names. Cycles are permitted in the graph; the optimizer does
	// not detect them, and evaluating a global whose initializer
	// transitively loads itself does not terminate.
	deps map[*Symbol]map[*Symbol]bool
}

// NewProgram returns an empty Program ready for lowering to populate.
func NewProgram() *Program {
	return &Program{deps: make(map[*Symbol]map[*Symbol]bool)}
}

// AddDep records a direct-use edge from -> to (spec §4.3 step 6:
// "Dependency edges").
func (p *Program) AddDep(from, to *Symbol) {
	set, ok := p.deps[from]
	if !ok {
		set = make(map[*Symbol]bool)
		p.deps[from] = set
	}
	set[to] = true
}

// Deps returns the symbols from directly depends on, in no particular
// order. Callers that need a deterministic order must impose one; the
// emitter collects the owning modules and sorts the resulting #include
// lines by path.
func (p *Program) Deps(from *Symbol) []*Symbol {
	set := p.deps[from]
	out := make([]*Symbol, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

// HasDep reports whether from directly depends on to.
func (p *Program) HasDep(from, to *Symbol) bool {
	return p.deps[from] != nil && p.deps[from][to]
}

// AllModules returns every module in the program, flattened depth-first
// (parents before children), mirroring the original's forward_module walk
// (ssa.c) over a module tree rather than a flat list.
func (p *Program) AllModules() []*Module {
	var out []*Module
	var walk func(m *Module)
	walk = func(m *Module) {
		out = append(out, m)
		for _, c := range m.Children {
			walk(c)
		}
	}
	for _, m := range p.Modules {
		walk(m)
	}
	return out
}

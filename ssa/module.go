package ssa

// Module is a named collection of types, globals and functions with a
// logical path used for filesystem layout and C++ namespacing (spec §3
// "Module"). Globals imported from other modules are referenced only by
// Symbol identity, never duplicated.
type Module struct {
	Name string
	Path string

	Types     []*Type
	Globals   []*Symbol
	Functions []*Symbol

	// Children holds nested child modules (SPEC_FULL.md §4 "Map-size
	// prediction pass": the original walks a tree of nested modules, not a
	// flat list).
	Children []*Module
}

package c89

import (
	"fmt"

	"github.com/cthulhu-lang/cthulhuc/internal/names"
	"github.com/cthulhu-lang/cthulhuc/ssa"
)

// mangler assigns every symbol its C-visible name for one emitter run
// (spec.md §4.5 "Name mangling"). Priority order: explicit link_name, then
// the entry_cli/entry_gui special names, then the declared name, then an
// auto-generated anon<n> for a symbol with no declared name — in that
// order, which differs from the reference emitter's
// entry-point-before-link-name check (mangle_symbol_name in emit.c); this
// follows spec.md §4.5 literally since it states the priority explicitly
// and supersedes the original ordering.
type mangler struct {
	anon   names.Counter
	cached map[*ssa.Symbol]string
}

func newMangler() *mangler {
	return &mangler{cached: make(map[*ssa.Symbol]string)}
}

// name returns sym's mangled C identifier, stable for the lifetime of this
// mangler (spec.md §4.5: "n is stable within one emitter run").
func (m *mangler) name(sym *ssa.Symbol) string {
	if n, ok := m.cached[sym]; ok {
		return n
	}

	var n string
	switch {
	case sym.LinkName != "":
		n = sym.LinkName
	case sym.Linkage == ssa.LinkEntryCLI:
		n = "main"
	case sym.Linkage == ssa.LinkEntryGUI:
		n = "WinMain"
	case sym.Name != "":
		n = sym.Name
	default:
		n = fmt.Sprintf("anon%s", m.anon.Next())
	}

	m.cached[sym] = n
	return n
}

// isEntryPoint reports whether sym's linkage is one of the special entry
// points that never gets a prototype written (spec.md §4.5: entry points
// are called by the platform's own startup code, not from generated C).
func isEntryPoint(linkage ssa.Linkage) bool {
	return linkage == ssa.LinkEntryCLI || linkage == ssa.LinkEntryGUI
}

// linkagePrefix returns the C storage-class prefix for linkage (reference:
// format_c89_link in emit.c).
func linkagePrefix(linkage ssa.Linkage) string {
	switch linkage {
	case ssa.LinkImport:
		return "extern "
	case ssa.LinkModule:
		return "static "
	case ssa.LinkExport, ssa.LinkEntryCLI, ssa.LinkEntryGUI:
		return ""
	default:
		return ""
	}
}

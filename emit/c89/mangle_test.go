package c89

import (
	"testing"

	"github.com/cthulhu-lang/cthulhuc/ssa"
)

func TestManglerPriorityOrder(t *testing.T) {
	m := newMangler()

	linkNamed := &ssa.Symbol{Name: "foo", LinkName: "real_foo", Linkage: ssa.LinkEntryCLI}
	if got := m.name(linkNamed); got != "real_foo" {
		t.Errorf("name() with LinkName set = %q, want %q (link name wins over entry_cli)", got, "real_foo")
	}

	entryCLI := &ssa.Symbol{Name: "foo", Linkage: ssa.LinkEntryCLI}
	if got := m.name(entryCLI); got != "main" {
		t.Errorf("name() for entry_cli = %q, want \"main\"", got)
	}

	entryGUI := &ssa.Symbol{Name: "foo", Linkage: ssa.LinkEntryGUI}
	if got := m.name(entryGUI); got != "WinMain" {
		t.Errorf("name() for entry_gui = %q, want \"WinMain\"", got)
	}

	declared := &ssa.Symbol{Name: "bar"}
	if got := m.name(declared); got != "bar" {
		t.Errorf("name() for declared name = %q, want %q", got, "bar")
	}

	anon1 := &ssa.Symbol{}
	anon2 := &ssa.Symbol{}
	n1, n2 := m.name(anon1), m.name(anon2)
	if n1 == n2 {
		t.Errorf("two distinct anonymous symbols mangled to the same name %q", n1)
	}
}

func TestManglerStable(t *testing.T) {
	m := newMangler()
	sym := &ssa.Symbol{}
	first := m.name(sym)
	second := m.name(sym)
	if first != second {
		t.Errorf("name() not stable across calls: %q then %q", first, second)
	}
}

func TestLinkagePrefix(t *testing.T) {
	tests := []struct {
		linkage ssa.Linkage
		want    string
	}{
		{ssa.LinkImport, "extern "},
		{ssa.LinkModule, "static "},
		{ssa.LinkExport, ""},
		{ssa.LinkEntryCLI, ""},
		{ssa.LinkEntryGUI, ""},
	}
	for _, tt := range tests {
		if got := linkagePrefix(tt.linkage); got != tt.want {
			t.Errorf("linkagePrefix(%v) = %q, want %q", tt.linkage, got, tt.want)
		}
	}
}

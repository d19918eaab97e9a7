package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestCollectorSeverityAndFailed(t *testing.T) {
	var c Collector
	c.Notify(UnsupportedAtomic, nil, "dropped atomic on %s", "foo")
	if c.Failed() {
		t.Error("Failed() = true after only a warning, want false")
	}

	c.Notify(DivideByZero, nil, "division by zero")
	if !c.Failed() {
		t.Error("Failed() = false after an error, want true")
	}
	if got := c.ErrorCount(); got != 1 {
		t.Errorf("ErrorCount() = %d, want 1", got)
	}
}

func TestCollectorSortedIDs(t *testing.T) {
	var c Collector
	c.Notify(DivideByZero, nil, "x")
	c.Notify(ModuloByZero, nil, "y")
	c.Notify(DivideByZero, nil, "z")

	got := c.SortedIDs()
	want := []ID{DivideByZero, ModuloByZero}
	if len(got) != len(want) {
		t.Fatalf("SortedIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedIDs()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestConsoleNotify(t *testing.T) {
	var buf bytes.Buffer
	c := Console{W: &buf}
	c.Notify(Internal, "somenode", "bad state: %d", 7)

	out := buf.String()
	for _, want := range []string{"error", "internal", "bad state: 7", "somenode"} {
		if !strings.Contains(out, want) {
			t.Errorf("Console output %q missing %q", out, want)
		}
	}
}

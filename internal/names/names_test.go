package names

import "testing"

func TestCounterNext(t *testing.T) {
	var c Counter
	got := []string{c.Next(), c.Next(), c.Next()}
	want := []string{"0", "1", "2"}
	for i, g := range got {
		if g != want[i] {
			t.Errorf("Next() #%d = %q, want %q", i, g, want[i])
		}
	}
}

func TestCounterReset(t *testing.T) {
	var c Counter
	c.Next()
	c.Next()
	c.Reset()
	if got := c.Next(); got != "0" {
		t.Errorf("Next() after Reset() = %q, want \"0\"", got)
	}
}

func TestCleanModulePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"cthulhu.demo", false},
		{"cthulhu.demo.sub", false},
		{"", true},
	}
	for _, tt := range tests {
		got, err := CleanModulePath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("CleanModulePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.path {
			t.Errorf("CleanModulePath(%q) = %q, want unchanged", tt.path, got)
		}
	}
}

// Package names holds the small naming helpers shared by the builder and
// the C backend: monotonic counters for anonymous block names (reset per
// symbol by the builder, spec.md §4.2) and anonymous symbol names (one per
// emitter run, spec.md §4.5), and module-path hygiene for the filesystem
// layout the emitter writes into.
//
// This mirrors go/ssa's own reusable-counter idiom (func.go's
// numberRegisters pass) generalized into a standalone type so both the
// builder and the emitter can use it without duplicating the
// increment-and-format logic.
package names

import (
	"strconv"

	"golang.org/x/mod/module"
)

// Counter produces auto-incremented names, reset per symbol as required by
// spec.md §4.2 ("Block names are unique within a symbol... receive
// auto-incremented numeric names via a monotonic counter reset per
// symbol") and §4.5 ("Names for vregs and blocks are produced by
// per-symbol counters that reset between symbols").
type Counter struct {
	next int
}

// Next returns the next auto-incremented name as a decimal string.
func (c *Counter) Next() string {
	n := c.next
	c.next++
	return strconv.Itoa(n)
}

// Reset zeroes the counter for reuse on the next symbol.
func (c *Counter) Reset() {
	c.next = 0
}

// CleanModulePath validates and slash-normalizes a module's logical path
// before it is trusted as a filesystem/namespace-safe string (spec.md §3:
// Module "logical path (for filesystem and namespacing)"). It is grounded
// on golang.org/x/mod/module's import-path validation, the same package
// gopls/internal/server/link.go and gopls/internal/cache use to vet
// import paths before treating them as trustworthy identifiers.
//
// Cthulhu module paths use '.' as the separator (see the original
// ssa_compile_t.path handling, which splits on "."); CheckImportPath
// expects '/'. We translate before validating and report the original
// dotted form back to the caller unchanged if it is valid, since callers
// (the emitter) still need '.'-free path *segments* for directory nesting.
func CleanModulePath(dotted string) (string, error) {
	slashed := dottedToSlashed(dotted)
	if err := module.CheckImportPath(slashed); err != nil {
		return "", err
	}
	return dotted, nil
}

func dottedToSlashed(dotted string) string {
	out := make([]byte, len(dotted))
	for i := 0; i < len(dotted); i++ {
		if dotted[i] == '.' {
			out[i] = '/'
		} else {
			out[i] = dotted[i]
		}
	}
	return string(out)
}

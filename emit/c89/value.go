package c89

import (
	"strings"

	"github.com/cthulhu-lang/cthulhuc/internal/bignum"
	"github.com/cthulhu-lang/cthulhuc/ssa"
)

// formatValue renders a literal or relative Value as a C89 expression
// (spec.md §4.5 "Value printing"; reference: c89_format_value/
// c89_format_pointer in emit.c).
func (f *formatter) formatValue(v *ssa.Value, m *mangler) string {
	switch v.Type.Kind {
	case ssa.TyBool:
		if v.AsBool() {
			return "true"
		}
		return "false"

	case ssa.TyDigit:
		return formatDigit(v.AsDigit())

	case ssa.TyOpaque:
		if v.Kind == ssa.ValRelative {
			return "((void*)" + m.name(v.Relative) + ")"
		}
		return "((void*)" + formatDigit(v.AsDigit()) + "ull)"

	case ssa.TyPointer:
		if v.Kind == ssa.ValRelative {
			// "context is a non-opaque pointer": print the bare mangled
			// symbol name, no cast (spec.md §4.5 "Value printing").
			return m.name(v.Relative)
		}
		return f.formatAggregate(v, m)

	default:
		panic("emit/c89: value of unformattable type kind " + v.Type.Kind.String())
	}
}

// formatDigit renders an arbitrary-precision integer with the suffix its
// magnitude requires (spec.md §4.5, reference: internal/bignum.Suffix).
func formatDigit(i *bignum.Int) string {
	return i.String() + bignum.Suffix(i)
}

// formatAggregate renders a pointer-typed literal's Data: a C-quoted
// string when the pointee is a byte-sized digit type (spec.md §4.5:
// "Strings are serialized as C-quoted \"...\""), otherwise a brace-init
// list of the formatted elements (reference: c89_format_pointer, used for
// non-string pointer/array initializers such as constant record or array
// literals).
func (f *formatter) formatAggregate(v *ssa.Value, m *mangler) string {
	if isByteDigit(v.Type.Target) {
		return quoteCString(v.Data)
	}

	parts := make([]string, len(v.Data))
	for i, elem := range v.Data {
		parts[i] = f.formatValue(elem, m)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func isByteDigit(t *ssa.Type) bool {
	return t.Kind == ssa.TyDigit && (t.Width == ssa.WChar || t.Width == ssa.W8)
}

// quoteCString escapes data as a C89 string literal. data holds one
// NewCharValue-constructed byte per source-string character (spec.md §3
// Value); this renders it back to source text rather than the brace-list
// of per-byte integers a literal aggregate would otherwise get, since
// spec.md §4.5 requires quoted-string output for strings specifically.
func quoteCString(data []*ssa.Value) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, elem := range data {
		c := byte(elem.AsDigit().Int64())
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 0x20 || c >= 0x7f {
				b.WriteString("\\x")
				b.WriteByte(hexDigit(c >> 4))
				b.WriteByte(hexDigit(c & 0xf))
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'a' + (n - 10)
}

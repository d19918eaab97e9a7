// Package bignum provides the arbitrary-precision integer helpers shared by
// the ssa and ssaopt packages. Every digit-typed Value literal and every
// constant-folded result is stored as a *big.Int so that no width or
// signedness is lost before the C backend formats it (spec.md §4.4:
// "Numeric semantics").
package bignum

import "math/big"

// Int is an arbitrary-precision integer, as carried by digit-typed
// ssa.Value literals.
type Int = big.Int

// FromInt64 returns a new Int with the given value.
func FromInt64(v int64) *Int {
	return big.NewInt(v)
}

// FromUint64 returns a new Int with the given value.
func FromUint64(v uint64) *Int {
	i := new(big.Int)
	i.SetUint64(v)
	return i
}

// Parse parses a base-10 or 0x/0o/0b-prefixed integer literal, matching the
// literals the HIR layer hands across as text. It reports
// (nil, false) on malformed input so callers can raise InvalidIntegerLiteral.
func Parse(text string) (*Int, bool) {
	i, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return nil, false
	}
	return i, true
}

// IsZero reports whether i is exactly zero.
func IsZero(i *Int) bool {
	return i.Sign() == 0
}

// Width classes used by the C backend's integer-literal suffix rule
// (spec.md §4.5 "Value printing", §8 "Boundary behaviors").
const (
	maxInt      = int64(1)<<31 - 1
	minInt      = -(int64(1) << 31)
	maxLongLong = int64(1<<63 - 1)
)

var maxULongLong = new(big.Int).SetUint64(^uint64(0))

// Suffix reports the C integer-literal suffix needed to print i without
// precondition violation: "" if it fits a plain int, "ll" if it needs long
// long, "ull" if it needs unsigned long long. The caller must have already
// rejected values above the ull boundary (spec.md §8).
func Suffix(i *Int) string {
	if i.IsInt64() {
		v := i.Int64()
		if v >= minInt && v <= maxInt {
			return ""
		}
		if v >= -maxLongLong-1 && v <= maxLongLong {
			return "ll"
		}
	}
	return "ull"
}

// FitsUnsignedLongLong reports whether i can be printed at all under the
// C backend's literal formatting rule; values above this are a precondition
// violation upstream (spec.md §8).
func FitsUnsignedLongLong(i *Int) bool {
	if i.Sign() < 0 {
		return i.Cmp(new(big.Int).Neg(maxULongLong)) >= 0
	}
	return i.Cmp(maxULongLong) <= 0
}

// DivMod implements the optimizer's chosen rounding rule for negative
// operands (spec.md §9, Open Question: "Division with negative operands"):
// exact division when the divisor evenly divides the dividend, floor
// division otherwise. This is resolved identically for both Div and Rem so
// that (q*d + r) == n always holds.
func DivMod(n, d *Int) (q, r *Int) {
	q = new(big.Int)
	r = new(big.Int)
	q.DivMod(n, d, r)
	// big.Int.DivMod is Euclidean (r is always >= 0); convert to floor
	// division semantics (remainder takes the sign of the divisor) to match
	// the documented rule.
	if r.Sign() != 0 && d.Sign() < 0 {
		q.Sub(q, big.NewInt(1))
		r.Add(r, d)
	}
	return q, r
}

// Shl returns n << by two's complement arithmetic shift semantics (spec.md
// §4.4: "shl/shr use the integer interpretation of the right operand").
func Shl(n *Int, by uint) *Int {
	return new(big.Int).Lsh(n, by)
}

// Shr performs an arithmetic right shift (floor division by 2^by).
func Shr(n *Int, by uint) *Int {
	return new(big.Int).Rsh(n, by)
}

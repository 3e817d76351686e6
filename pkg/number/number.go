// Package number implements exact arbitrary-precision rational arithmetic.
//
// A Number is a signed rational kept in lowest terms with a positive
// denominator, or one of the two sentinel values Infinity and NaN. The four
// basic operations are exact; only exponentiation by a fractional power
// approximates, through the Newton-Raphson root finder in root.go, and only
// to the precision the caller asks for.
//
// # Example
//
//	a, _ := number.FromString("1.5")
//	b, _ := number.FromString("3")
//	fmt.Println(a.Div(b).Render(4)) // 0.5
package number

import (
	"fmt"
	"math/big"
	"strings"
)

// form discriminates the rational payload from the sentinel states.
type form uint8

const (
	finite form = iota
	infinite
	notANumber
)

// Number is an immutable exact rational value, or a sentinel.
// The zero value is the rational 0.
type Number struct {
	form form
	rat  *big.Rat
}

// Ellipsis is appended by Render when the shown digits do not reproduce the
// exact value.
const Ellipsis = "…"

// FromString parses a decimal literal: digits with an optional fractional
// part, such as "42" or "3.1415". Signs, exponents and fraction slashes are
// rejected; negation is an expression-level concern.
func FromString(s string) (Number, error) {
	if !validLiteral(s) {
		return Number{}, fmt.Errorf("malformed number %q", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Number{}, fmt.Errorf("malformed number %q", s)
	}
	return Number{form: finite, rat: r}, nil
}

func validLiteral(s string) bool {
	if s == "" {
		return false
	}
	dot := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.':
			// A dot needs digits on both sides.
			if dot || i == 0 || i == len(s)-1 {
				return false
			}
			dot = true
		default:
			return false
		}
	}
	return true
}

// FromInt64 returns the exact rational n.
func FromInt64(n int64) Number {
	return Number{form: finite, rat: new(big.Rat).SetInt64(n)}
}

// FromRat returns a Number holding a copy of r.
func FromRat(r *big.Rat) Number {
	return Number{form: finite, rat: new(big.Rat).Set(r)}
}

// Inf returns the Infinity sentinel.
func Inf() Number { return Number{form: infinite} }

// NaN returns the Not-a-Number sentinel.
func NaN() Number { return Number{form: notANumber} }

// IsInf reports whether n is the Infinity sentinel.
func (n Number) IsInf() bool { return n.form == infinite }

// IsNaN reports whether n is the NaN sentinel.
func (n Number) IsNaN() bool { return n.form == notANumber }

func (n Number) finiteRat() *big.Rat {
	if n.rat == nil {
		return new(big.Rat)
	}
	return n.rat
}

// Sign returns -1, 0 or +1 for finite values, +1 for Infinity and 0 for NaN.
func (n Number) Sign() int {
	switch n.form {
	case infinite:
		return 1
	case notANumber:
		return 0
	}
	return n.finiteRat().Sign()
}

// Clone returns an independent copy of n.
func (n Number) Clone() Number {
	if n.form != finite {
		return Number{form: n.form}
	}
	return Number{form: finite, rat: new(big.Rat).Set(n.finiteRat())}
}

// Neg returns -n. Sentinels pass through unchanged.
func (n Number) Neg() Number {
	if n.form != finite {
		return Number{form: n.form}
	}
	return Number{form: finite, rat: new(big.Rat).Neg(n.finiteRat())}
}

// sentinel returns the propagated sentinel for a binary operation, if any.
// NaN absorbs everything; otherwise an infinite operand makes the result
// infinite.
func sentinel(a, b Number) (Number, bool) {
	if a.form == notANumber || b.form == notANumber {
		return NaN(), true
	}
	if a.form == infinite || b.form == infinite {
		return Inf(), true
	}
	return Number{}, false
}

// Add returns the exact sum n + o.
func (n Number) Add(o Number) Number {
	if s, ok := sentinel(n, o); ok {
		return s
	}
	return Number{form: finite, rat: new(big.Rat).Add(n.finiteRat(), o.finiteRat())}
}

// Sub returns the exact difference n - o.
func (n Number) Sub(o Number) Number {
	if s, ok := sentinel(n, o); ok {
		return s
	}
	return Number{form: finite, rat: new(big.Rat).Sub(n.finiteRat(), o.finiteRat())}
}

// Mul returns the exact product n * o.
func (n Number) Mul(o Number) Number {
	if s, ok := sentinel(n, o); ok {
		return s
	}
	return Number{form: finite, rat: new(big.Rat).Mul(n.finiteRat(), o.finiteRat())}
}

// Div returns the exact quotient n / o. Dividing a nonzero value by the
// exact rational zero yields Infinity; 0/0 yields NaN. Division never
// returns an error.
func (n Number) Div(o Number) Number {
	if s, ok := sentinel(n, o); ok {
		return s
	}
	if o.finiteRat().Sign() == 0 {
		if n.finiteRat().Sign() == 0 {
			return NaN()
		}
		return Inf()
	}
	return Number{form: finite, rat: new(big.Rat).Quo(n.finiteRat(), o.finiteRat())}
}

// Pow raises n to the rational power exp. The integer-numerator step is
// exact; a non-unit denominator takes a root at the given decimal precision,
// so only irrational results are ever approximated. An exponent numerator
// outside the int64 range yields NaN.
func (n Number) Pow(exp Number, prec int) Number {
	if s, ok := sentinel(n, exp); ok {
		return s
	}
	num := exp.finiteRat().Num()
	den := exp.finiteRat().Denom()
	if !num.IsInt64() {
		return NaN()
	}
	powed := n.powInt(num.Int64())
	if den.IsInt64() && den.Int64() == 1 {
		return powed
	}
	return powed.Root(Number{form: finite, rat: new(big.Rat).SetInt(den)}, prec)
}

// powInt computes n^p by successive multiplication, taking the reciprocal
// for negative p. p == 0 yields 1.
func (n Number) powInt(p int64) Number {
	if p == 0 {
		return FromInt64(1)
	}
	neg := p < 0
	if neg {
		p = -p
	}
	base := n.finiteRat()
	acc := new(big.Rat).Set(base)
	for i := int64(1); i < p; i++ {
		acc.Mul(acc, base)
	}
	r := Number{form: finite, rat: acc}
	if neg {
		return FromInt64(1).Div(r)
	}
	return r
}

// Equal reports structural equality: sentinels compare by kind (NaN equals
// NaN here, this is tree equality rather than IEEE semantics) and finite
// values compare as reduced rationals.
func (n Number) Equal(o Number) bool {
	if n.form != o.form {
		return false
	}
	if n.form != finite {
		return true
	}
	return n.finiteRat().Cmp(o.finiteRat()) == 0
}

// RatString returns a text form that survives the wire codec: "inf", "nan",
// or the exact fraction in big.Rat notation ("4", "-13/7").
func (n Number) RatString() string {
	switch n.form {
	case infinite:
		return "inf"
	case notANumber:
		return "nan"
	}
	return n.finiteRat().RatString()
}

// FromRatString is the inverse of RatString.
func FromRatString(s string) (Number, error) {
	switch s {
	case "inf":
		return Inf(), nil
	case "nan":
		return NaN(), nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Number{}, fmt.Errorf("malformed rational %q", s)
	}
	return Number{form: finite, rat: r}, nil
}

// Render formats n to at most prec decimal digits. When the shown digits do
// not reproduce the exact value the Ellipsis marker is appended; exact
// values render bare. Trailing fractional zeros are trimmed.
func (n Number) Render(prec int) string {
	switch n.form {
	case infinite:
		return "∞"
	case notANumber:
		return "NaN"
	}
	if prec < 0 {
		prec = 0
	}
	s := n.finiteRat().FloatString(prec)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	if shown, ok := new(big.Rat).SetString(s); !ok || shown.Cmp(n.finiteRat()) != 0 {
		return s + Ellipsis
	}
	return s
}

func (n Number) String() string {
	return n.RatString()
}

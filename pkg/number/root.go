package number

import "math/big"

// workingDigits is how many digits beyond the requested precision are kept
// while the Newton iteration runs; the extra budget absorbs the rounding
// introduced by bounding the iterate's denominator.
const workingDigits = 4

// thresholdDigits places the convergence threshold at 10^-(prec+2).
const thresholdDigits = 2

var (
	big1  = big.NewInt(1)
	big10 = big.NewInt(10)
	rat2  = new(big.Rat).SetInt64(2)
)

func pow10(digits int) *big.Int {
	return new(big.Int).Exp(big10, big.NewInt(int64(digits)), nil)
}

// Root computes the index-th root of n to prec decimal digits using
// Newton-Raphson iteration over exact rationals.
//
// The integer numerator p of index selects the root; a negative p yields
// the reciprocal of the |p|-th root, and a non-unit denominator q raises
// the rooted value to q afterwards, mirroring the fractional-exponent case.
// Negative n has no real root here and yields NaN, as do a zero or oversized
// root index; the Infinity and NaN sentinels of n pass through unchanged.
func (n Number) Root(index Number, prec int) Number {
	if n.form != finite {
		return Number{form: n.form}
	}
	if index.form != finite {
		return NaN()
	}
	pInt := index.finiteRat().Num()
	q := index.finiteRat().Denom()
	if !pInt.IsInt64() || pInt.Sign() == 0 {
		return NaN()
	}
	p := pInt.Int64()
	neg := p < 0
	if neg {
		p = -p
	}
	if n.Sign() < 0 {
		return NaN()
	}
	if n.Sign() == 0 {
		return FromInt64(0)
	}
	if prec < 0 {
		prec = 0
	}

	var rooted Number
	if p == 1 {
		rooted = n.Clone()
	} else {
		rooted = Number{form: finite, rat: newton(n.finiteRat(), p, prec)}
	}
	if neg {
		rooted = FromInt64(1).Div(rooted)
	}
	if !(q.IsInt64() && q.Int64() == 1) {
		rooted = rooted.Pow(Number{form: finite, rat: new(big.Rat).SetInt(q)}, prec)
	}
	return rooted
}

// newton iterates x <- x - (x^p - a)/(p*x^(p-1)) from a/2 until the change
// between iterates drops under 10^-(prec+2), bounding the iterate's
// denominator to 10^(prec+4) before every step. The final iterate is
// decimal-rounded at prec and prec+2 digits: when the two agree the value is
// clean at the requested precision and the short form is returned, otherwise
// the longer form is kept so the render-time precision-loss detector fires.
func newton(a *big.Rat, p int64, prec int) *big.Rat {
	target := pow10(prec + workingDigits)
	threshold := new(big.Rat).SetFrac(big1, pow10(prec+thresholdDigits))
	pRat := new(big.Rat).SetInt64(p)

	x := new(big.Rat).Quo(a, rat2)
	for {
		x = boundDenominator(x, target)
		xp1 := ratPow(x, p-1)
		xp := new(big.Rat).Mul(xp1, x)
		num := new(big.Rat).Sub(xp, a)
		den := new(big.Rat).Mul(pRat, xp1)
		next := new(big.Rat).Sub(x, new(big.Rat).Quo(num, den))
		delta := new(big.Rat).Sub(next, x)
		delta.Abs(delta)
		x = next
		if delta.Cmp(threshold) < 0 {
			break
		}
	}

	short := roundDecimal(x, prec)
	long := roundDecimal(x, prec+thresholdDigits)
	if short.Cmp(long) == 0 {
		return short
	}
	return long
}

// ratPow is x^e for small non-negative e, exact.
func ratPow(x *big.Rat, e int64) *big.Rat {
	acc := new(big.Rat).SetInt64(1)
	for i := int64(0); i < e; i++ {
		acc.Mul(acc, x)
	}
	return acc
}

// boundDenominator integer-divides numerator and denominator by
// den/target whenever that quotient is positive, trading a bounded loss of
// exactness for bounded term growth during iteration. The iterate is left
// untouched when truncation would collapse it to zero.
func boundDenominator(x *big.Rat, target *big.Int) *big.Rat {
	den := x.Denom()
	k := new(big.Int).Quo(den, target)
	if k.Sign() <= 0 {
		return x
	}
	num := new(big.Int).Quo(x.Num(), k)
	if num.Sign() == 0 {
		return x
	}
	return new(big.Rat).SetFrac(num, new(big.Int).Quo(den, k))
}

// roundDecimal rounds x half away from zero to the given number of decimal
// digits, returning an exact rational with denominator dividing 10^digits.
func roundDecimal(x *big.Rat, digits int) *big.Rat {
	scale := pow10(digits)
	num := new(big.Int).Mul(x.Num(), scale)
	q, r := new(big.Int).QuoRem(num, x.Denom(), new(big.Int))
	r.Abs(r)
	r.Lsh(r, 1)
	if r.Cmp(x.Denom()) >= 0 {
		if x.Sign() >= 0 {
			q.Add(q, big1)
		} else {
			q.Sub(q, big1)
		}
	}
	return new(big.Rat).SetFrac(q, scale)
}

package exif

import (
	"strconv"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
)

// Rational is an exact numerator/denominator pair as stored in RATIONAL and
// SRATIONAL tags. A zero denominator marks the value as unavailable.
type Rational struct {
	Num int64
	Den int64
}

// Valid reports whether the denominator is non-zero.
func (r Rational) Valid() bool { return r.Den != 0 }

// Reduce returns r in lowest terms with the sign carried by the numerator.
// Invalid rationals are returned unchanged.
func (r Rational) Reduce() Rational {
	if r.Den == 0 {
		return r
	}
	num, den := r.Num, r.Den
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(abs(num), den); g > 1 {
		num, den = num/g, den/g
	}
	return Rational{Num: num, Den: den}
}

// Float returns num/den as a float, and false for a zero denominator.
func (r Rational) Float() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}
	return float64(r.Num) / float64(r.Den), true
}

// String renders the reduced ratio: a bare integer when the denominator
// reduces to 1, "n/d" otherwise, and N/A for a zero denominator.
func (r Rational) String() string {
	if r.Den == 0 {
		return core.NotApplicable
	}
	red := r.Reduce()
	if red.Den == 1 {
		return strconv.FormatInt(red.Num, 10)
	}
	return strconv.FormatInt(red.Num, 10) + "/" + strconv.FormatInt(red.Den, 10)
}

// FormatRational renders the first element of a rational tag value.
//
// It returns def when v is absent, empty, or its first element has a zero
// denominator. Values of any other numeric type render their first element.
func FormatRational(v Value, def string) string {
	if v == nil || v.Len() == 0 {
		return def
	}
	if r, ok := Rat(v, 0); ok {
		if !r.Valid() {
			return def
		}
		return r.String()
	}
	return v.Items()[0]
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

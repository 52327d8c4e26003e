package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

type Complex = complex128

// Prob returns |a|², the probability carried by an amplitude.
func Prob(a Complex) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}

// Magnitude returns |a|.
func Magnitude(a Complex) float64 {
	return cmplx.Abs(a)
}

// FormatComplex renders a as "re ± im i" with the given number of decimals.
func FormatComplex(a Complex, decimals int) string {
	sign := "+"
	if imag(a) < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%.*f %s %.*fi", decimals, real(a), sign, decimals, math.Abs(imag(a)))
}

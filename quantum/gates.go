package quantum

import (
	"math"
	"math/cmplx"
)

// Matrix is a single-qubit unitary in row-major order. Gate values are
// shared; nothing in the package mutates them.
type Matrix [2][2]Complex

var invSqrt2 = complex(1/math.Sqrt2, 0)

// Fixed single-qubit gates.
var (
	I   = Matrix{{1, 0}, {0, 1}}
	H   = Matrix{{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}}
	X   = Matrix{{0, 1}, {1, 0}}
	Y   = Matrix{{0, -1i}, {1i, 0}}
	Z   = Matrix{{1, 0}, {0, -1}}
	S   = Matrix{{1, 0}, {0, 1i}}
	Sdg = Matrix{{1, 0}, {0, -1i}}
	T   = Matrix{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}
	Tdg = Matrix{{1, 0}, {0, cmplx.Exp(complex(0, -math.Pi/4))}}
)

// RX returns cos(θ/2)·I − i·sin(θ/2)·X.
func RX(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	return Matrix{{c, js}, {js, c}}
}

// RY returns cos(θ/2)·I − i·sin(θ/2)·Y.
func RY(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix{{c, -s}, {s, c}}
}

// RZ returns diag(e^{-iθ/2}, e^{iθ/2}).
func RZ(theta float64) Matrix {
	phase := cmplx.Exp(complex(0, theta/2))
	return Matrix{{cmplx.Conj(phase), 0}, {0, phase}}
}

// Phase returns diag(1, e^{iλ}).
func Phase(lambda float64) Matrix {
	return Matrix{{1, 0}, {0, cmplx.Exp(complex(0, lambda))}}
}

// U3 returns the OpenQASM u3 gate
//
//	[ cos(θ/2)          −e^{iλ}·sin(θ/2)     ]
//	[ e^{iφ}·sin(θ/2)   e^{i(φ+λ)}·cos(θ/2) ]
func U3(theta, phi, lambda float64) Matrix {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	return Matrix{
		{complex(c, 0), -cmplx.Exp(complex(0, lambda)) * complex(s, 0)},
		{cmplx.Exp(complex(0, phi)) * complex(s, 0), cmplx.Exp(complex(0, phi+lambda)) * complex(c, 0)},
	}
}

// DecomposeU3 returns angles with U3(theta, phi, lambda) equal to the
// unitary m up to a global phase. When sin(θ/2) or cos(θ/2) vanishes only
// φ+λ or φ−λ is determined; the free angle is then 0.
func DecomposeU3(m Matrix) (theta, phi, lambda float64) {
	const eps = 1e-12
	c, s := cmplx.Abs(m[0][0]), cmplx.Abs(m[1][0])
	theta = 2 * math.Atan2(s, c)

	switch {
	case s < eps:
		alpha := cmplx.Phase(m[0][0])
		lambda = cmplx.Phase(m[1][1]) - alpha
	case c < eps:
		alpha := cmplx.Phase(-m[0][1])
		phi = cmplx.Phase(m[1][0]) - alpha
	default:
		alpha := cmplx.Phase(m[0][0])
		phi = cmplx.Phase(m[1][0]) - alpha
		lambda = cmplx.Phase(-m[0][1]) - alpha
	}
	return theta, wrapAngle(phi), wrapAngle(lambda)
}

// wrapAngle maps a to (−π, π].
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	switch {
	case a > math.Pi:
		a -= 2 * math.Pi
	case a <= -math.Pi:
		a += 2 * math.Pi
	}
	return a
}

// Dagger returns the conjugate transpose of m.
func Dagger(m Matrix) Matrix {
	return Matrix{
		{cmplx.Conj(m[0][0]), cmplx.Conj(m[1][0])},
		{cmplx.Conj(m[0][1]), cmplx.Conj(m[1][1])},
	}
}

// Mul returns a·b.
func Mul(a, b Matrix) Matrix {
	var out Matrix
	for r := range 2 {
		for c := range 2 {
			out[r][c] = a[r][0]*b[0][c] + a[r][1]*b[1][c]
		}
	}
	return out
}

// IsUnitary reports whether m·m† is the identity within tol.
func IsUnitary(m Matrix, tol float64) bool {
	p := Mul(m, Dagger(m))
	for r := range 2 {
		for c := range 2 {
			if cmplx.Abs(p[r][c]-I[r][c]) > tol {
				return false
			}
		}
	}
	return true
}

// diagonal reports whether the off-diagonal entries are exactly zero, which
// lets the state vector skip the pairwise update.
func (m Matrix) diagonal() bool {
	return m[0][1] == 0 && m[1][0] == 0
}

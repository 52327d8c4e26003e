package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// BlochVector is a point on (or inside) the unit sphere.
type BlochVector struct {
	X, Y, Z float64
}

// Spherical holds the polar angle Theta ∈ [0, π] and azimuth Phi ∈ [0, 2π).
type Spherical struct {
	Theta, Phi float64
}

// QubitState is the single-qubit view handed to visualizers.
type QubitState struct {
	Amplitude0   Complex
	Amplitude1   Complex
	Probability0 float64
	Probability1 float64
	Bloch        BlochVector
	Spherical    Spherical
}

// ReducedQubitState approximates qubit q as a pure single-qubit state by
// summing the raw amplitudes that share each bit value and renormalizing.
// For entangled registers this is not a partial trace: relative phases
// between branches are mixed in. Use it for display only, never to decide
// measurement outcomes.
func (c *Circuit) ReducedQubitState(q int) (QubitState, error) {
	if err := c.ValidateQubits(q); err != nil {
		return QubitState{}, fmt.Errorf("reduced state: %w", err)
	}

	bit := 1 << q
	var a0, a1 Complex
	for i, a := range c.state.Amplitudes {
		if i&bit == 0 {
			a0 += a
		} else {
			a1 += a
		}
	}

	norm := math.Sqrt(Prob(a0) + Prob(a1))
	if norm < math.Sqrt(ProbTolerance) {
		// The branches cancelled out; fall back to the marginal magnitudes.
		p0 := c.state.ProbabilityZero(q)
		a0 = complex(math.Sqrt(p0), 0)
		a1 = complex(math.Sqrt(math.Max(0, 1-p0)), 0)
	} else {
		a0 /= complex(norm, 0)
		a1 /= complex(norm, 0)
	}
	return NewQubitState(a0, a1), nil
}

// NewQubitState normalizes (a0, a1) and derives its Bloch coordinates.
func NewQubitState(a0, a1 Complex) QubitState {
	p0, p1 := Prob(a0), Prob(a1)
	if norm := math.Sqrt(p0 + p1); norm > 0 && math.Abs(norm-1) > 1e-10 {
		a0 /= complex(norm, 0)
		a1 /= complex(norm, 0)
		p0, p1 = Prob(a0), Prob(a1)
	}

	bloch := StateToBloch(a0, a1)
	return QubitState{
		Amplitude0:   a0,
		Amplitude1:   a1,
		Probability0: p0,
		Probability1: p1,
		Bloch:        bloch,
		Spherical:    BlochToSpherical(bloch),
	}
}

// StateToBloch maps α|0⟩ + β|1⟩ to (sinθ cosφ, sinθ sinφ, cosθ) with
// θ = 2·acos|α| and φ = arg β − arg α.
func StateToBloch(a0, a1 Complex) BlochVector {
	theta := 2 * math.Acos(math.Min(1, cmplx.Abs(a0)))
	phi := wrapAngle(cmplx.Phase(a1) - cmplx.Phase(a0))
	return SphericalToBloch(Spherical{Theta: theta, Phi: phi})
}

func BlochToSpherical(b BlochVector) Spherical {
	r := math.Sqrt(b.X*b.X + b.Y*b.Y + b.Z*b.Z)
	theta := 0.0
	if r > 0 {
		theta = math.Acos(math.Max(-1, math.Min(1, b.Z/r)))
	}
	return Spherical{Theta: theta, Phi: wrapAngle(math.Atan2(b.Y, b.X))}
}

func SphericalToBloch(s Spherical) BlochVector {
	return BlochVector{
		X: math.Sin(s.Theta) * math.Cos(s.Phi),
		Y: math.Sin(s.Theta) * math.Sin(s.Phi),
		Z: math.Cos(s.Theta),
	}
}

// BlochToState returns cos(θ/2)|0⟩ + e^{iφ} sin(θ/2)|1⟩ for the given vector.
func BlochToState(b BlochVector) QubitState {
	sph := BlochToSpherical(b)
	a0 := complex(math.Cos(sph.Theta/2), 0)
	a1 := cmplx.Rect(math.Sin(sph.Theta/2), sph.Phi)
	return QubitState{
		Amplitude0:   a0,
		Amplitude1:   a1,
		Probability0: Prob(a0),
		Probability1: Prob(a1),
		Bloch:        b,
		Spherical:    sph,
	}
}

// wrapAngle maps an angle into [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

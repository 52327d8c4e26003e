package quantum

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
	"strconv"
	"strings"
)

const (
	// DefaultMaxQubits bounds NewStateVector when no limit is configured.
	// 2^24 amplitudes take 256 MiB.
	DefaultMaxQubits = 24
	// MaxQubitsLimit is the largest limit a caller may configure.
	MaxQubitsLimit = 30

	// NormTolerance is the allowed drift of Σ|a|² from 1.
	NormTolerance = 1e-9
	// ProbTolerance is the probability below which an outcome is unreachable.
	ProbTolerance = 1e-12
	// summaryCutoff hides basis states with negligible probability.
	summaryCutoff = 1e-10
)

// StateVector holds the 2^N amplitudes of an N-qubit register. Qubit q is
// bit q of the basis index, so qubit 0 is the least significant bit.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector returns |0…0⟩ on numQubits qubits. It fails when numQubits
// is not in [1, maxQubits]. A non-positive maxQubits means DefaultMaxQubits;
// larger values are clamped to MaxQubitsLimit.
func NewStateVector(numQubits, maxQubits int) (*StateVector, error) {
	switch {
	case maxQubits <= 0:
		maxQubits = DefaultMaxQubits
	case maxQubits > MaxQubitsLimit:
		maxQubits = MaxQubitsLimit
	}
	if numQubits <= 0 || numQubits > maxQubits {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidQubitCount, numQubits, maxQubits)
	}
	amps := make([]Complex, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}, nil
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// ApplySingle applies u to qubit q. Every (i, i|bit) pair with bit q clear in
// i is visited exactly once. Neither q nor u is checked; Circuit validates
// indices and unitarity before calling it.
func (s *StateVector) ApplySingle(q int, u Matrix) {
	s.apply(q, 0, u)
}

// ApplyControlled applies u to target on the subspace where control is 1.
// Amplitudes with the control bit clear are not touched. Like ApplySingle it
// expects distinct, in-range qubits.
func (s *StateVector) ApplyControlled(control, target int, u Matrix) {
	s.apply(target, 1<<control, u)
}

func (s *StateVector) apply(q, ctrlMask int, u Matrix) {
	n := len(s.Amplitudes)
	bit := 1 << q
	amps := s.Amplitudes

	if u.diagonal() {
		d0, d1 := u[0][0], u[1][1]
		for i := 0; i < n; i++ {
			if i&ctrlMask != ctrlMask {
				continue
			}
			if i&bit == 0 {
				amps[i] *= d0
			} else {
				amps[i] *= d1
			}
		}
		return
	}

	for block := 0; block < n; block += bit << 1 {
		for i := block; i < block+bit; i++ {
			if i&ctrlMask != ctrlMask {
				continue
			}
			j := i | bit
			a, b := amps[i], amps[j]
			amps[i] = u[0][0]*a + u[0][1]*b
			amps[j] = u[1][0]*a + u[1][1]*b
		}
	}
}

// ProbabilityZero returns the probability that measuring q yields 0.
func (s *StateVector) ProbabilityZero(q int) float64 {
	bit := 1 << q
	p := 0.0
	for i, a := range s.Amplitudes {
		if i&bit == 0 {
			p += Prob(a)
		}
	}
	return p
}

// Collapse projects q onto outcome and renormalizes. The state is left
// unchanged when the outcome is unreachable or the arguments are invalid.
func (s *StateVector) Collapse(q, outcome int) error {
	if q < 0 || q >= s.NumQubits {
		return fmt.Errorf("%w: %d (state has %d qubits)", ErrQubitIndexOutOfRange, q, s.NumQubits)
	}
	if outcome != 0 && outcome != 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidOutcome, outcome)
	}
	p := s.ProbabilityZero(q)
	if outcome == 1 {
		p = 1 - p
	}
	if p < ProbTolerance {
		return fmt.Errorf("%w: qubit %d outcome %d has probability %g", ErrZeroProbabilityCollapse, q, outcome, p)
	}

	bit := 1 << q
	want := 0
	if outcome == 1 {
		want = bit
	}
	norm := complex(math.Sqrt(p), 0)
	for i := range s.Amplitudes {
		if i&bit != want {
			s.Amplitudes[i] = 0
		} else {
			s.Amplitudes[i] /= norm
		}
	}
	return nil
}

// Sample draws one basis index with probability |a_i|² from a single uniform
// value and collapses the state onto it.
func (s *StateVector) Sample(r Rand) int {
	x := r.Float64()
	cum := 0.0
	picked := -1
	last := 0
	for i, a := range s.Amplitudes {
		p := Prob(a)
		if p == 0 {
			continue
		}
		last = i
		cum += p
		if x < cum {
			picked = i
			break
		}
	}
	// Rounding can leave cum slightly below x.
	if picked < 0 {
		picked = last
	}

	for i := range s.Amplitudes {
		s.Amplitudes[i] = 0
	}
	s.Amplitudes[picked] = 1
	return picked
}

// Norm returns Σ|a_i|².
func (s *StateVector) Norm() float64 {
	total := 0.0
	for _, a := range s.Amplitudes {
		total += Prob(a)
	}
	return total
}

// CheckNormalized reports ErrUnnormalizedState when Σ|a|² drifted past NormTolerance.
func (s *StateVector) CheckNormalized() error {
	if n := s.Norm(); math.Abs(n-1) > NormTolerance {
		return fmt.Errorf("%w: norm %.12f", ErrUnnormalizedState, n)
	}
	return nil
}

type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal outcome probabilities of every qubit.
func (s *StateVector) QubitProbabilities() []QubitProbability {
	probs := make([]QubitProbability, s.NumQubits)

	for i, amp := range s.Amplitudes {
		prob := Prob(amp)
		for q := 0; q < s.NumQubits; q++ {
			if i&(1<<q) != 0 {
				probs[q].Prob1 += prob
			} else {
				probs[q].Prob0 += prob
			}
		}
	}

	return probs
}

// BasisState is one entry of a state summary.
type BasisState struct {
	Index       int
	Bits        string // qubit N-1 first
	Amplitude   Complex
	Probability float64
	Phase       float64
	Hamming     int
}

// Summary lists the basis states with non-negligible probability in
// ascending index order.
func (s *StateVector) Summary() []BasisState {
	states := make([]BasisState, 0)

	for i, amp := range s.Amplitudes {
		prob := Prob(amp)
		if prob <= summaryCutoff {
			continue
		}
		states = append(states, BasisState{
			Index:       i,
			Bits:        basisBits(i, s.NumQubits),
			Amplitude:   amp,
			Probability: prob,
			Phase:       cmplx.Phase(amp),
			Hamming:     bits.OnesCount(uint(i)),
		})
	}

	return states
}

func basisBits(i, n int) string {
	b := strconv.FormatInt(int64(i), 2)
	if len(b) < n {
		b = strings.Repeat("0", n-len(b)) + b
	}
	return b
}

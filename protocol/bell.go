// Package protocol builds textbook two- and three-qubit protocols from
// quantum.Circuit calls.
package protocol

import (
	"errors"
	"fmt"
	"strings"

	"qtermsim/quantum"
)

var (
	ErrUnknownBellState = errors.New("unknown bell state")
	ErrInvalidMessage   = errors.New("invalid two-bit message")
	ErrTooFewQubits     = errors.New("circuit has too few qubits")
)

// BellState names one of the four maximally entangled two-qubit states.
type BellState int

const (
	PhiPlus BellState = iota
	PhiMinus
	PsiPlus
	PsiMinus
)

var bellNames = map[BellState]string{
	PhiPlus:  "phi+",
	PhiMinus: "phi-",
	PsiPlus:  "psi+",
	PsiMinus: "psi-",
}

func (b BellState) String() string {
	if name, ok := bellNames[b]; ok {
		return name
	}
	return fmt.Sprintf("BellState(%d)", int(b))
}

// ParseBellState accepts "phi+", "phi-", "psi+", "psi-" and the spelled out
// forms "phiplus", "phiminus", "psiplus", "psiminus".
func ParseBellState(s string) (BellState, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("plus", "+", "minus", "-", "_", "").Replace(s)
	for b, name := range bellNames {
		if s == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBellState, s)
}

// PrepareBell entangles qubits a and b into the requested Bell state,
// assuming both start in |0⟩. The indices are validated before any gate
// runs, so a rejected call leaves the circuit untouched.
func PrepareBell(c *quantum.Circuit, kind BellState, a, b int) error {
	if _, ok := bellNames[kind]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBellState, int(kind))
	}
	if err := c.ValidateQubits(a, b); err != nil {
		return fmt.Errorf("bell %s: %w", kind, err)
	}

	steps := []func() error{
		func() error { return c.H(a) },
		func() error { return c.CNOT(a, b) },
	}
	if kind == PhiMinus || kind == PsiMinus {
		steps = append(steps, func() error { return c.Z(a) })
	}
	if kind == PsiPlus || kind == PsiMinus {
		steps = append(steps, func() error { return c.X(b) })
	}
	return run(steps...)
}

func PreparePhiPlus(c *quantum.Circuit, a, b int) error  { return PrepareBell(c, PhiPlus, a, b) }
func PreparePhiMinus(c *quantum.Circuit, a, b int) error { return PrepareBell(c, PhiMinus, a, b) }
func PreparePsiPlus(c *quantum.Circuit, a, b int) error  { return PrepareBell(c, PsiPlus, a, b) }
func PreparePsiMinus(c *quantum.Circuit, a, b int) error { return PrepareBell(c, PsiMinus, a, b) }

// run executes steps in order and stops at the first error.
func run(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

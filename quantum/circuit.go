package quantum

import (
	"context"
	"fmt"
	"log/slog"

	"qtermsim/internal/logging"
)

// Op is one entry of the circuit's operation log.
type Op struct {
	Type    string    // "H", "RX", "CX", "MEASURE", ...
	Target  int       // target qubit
	Control int       // -1 if not a controlled gate
	Params  []float64 // rotation angles
	Cbit    int       // classical bit written by MEASURE, else -1
	Outcome int       // measured value for MEASURE, else -1
}

// Circuit applies gates eagerly to the state vector it owns. A Circuit is not
// safe for concurrent use; parallel work needs separate circuits.
type Circuit struct {
	numQubits int
	state     *StateVector
	register  []int
	ops       []Op
	ready     bool

	rng       Rand
	logger    *slog.Logger
	maxQubits int
	checks    bool
}

// Option configures a Circuit.
type Option func(*Circuit)

// WithRand sets the source consumed by Measure and MeasureAll.
func WithRand(r Rand) Option {
	return func(c *Circuit) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Circuit) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxQubits overrides DefaultMaxQubits. Values above MaxQubitsLimit are
// clamped to it; non-positive values keep the default.
func WithMaxQubits(n int) Option {
	return func(c *Circuit) { c.maxQubits = n }
}

// WithInvariantChecks toggles the normalization check after every gate.
func WithInvariantChecks(on bool) Option {
	return func(c *Circuit) { c.checks = on }
}

// New creates an n-qubit circuit in |0…0⟩ with an unset classical register.
func New(n int, opts ...Option) (*Circuit, error) {
	c := &Circuit{
		rng:       DefaultRand(),
		logger:    logging.Discard(),
		maxQubits: DefaultMaxQubits,
		checks:    true,
	}
	for _, opt := range opts {
		opt(c)
	}

	state, err := NewStateVector(n, c.maxQubits)
	if err != nil {
		return nil, err
	}
	c.numQubits = n
	c.state = state
	c.register = make([]int, n)
	for i := range c.register {
		c.register[i] = -1
	}
	return c, nil
}

func (c *Circuit) NumQubits() int { return c.numQubits }

// ValidateQubits checks that every index is in range and that no index repeats.
func (c *Circuit) ValidateQubits(qubits ...int) error {
	for i, q := range qubits {
		if q < 0 || q >= c.numQubits {
			return fmt.Errorf("%w: %d (circuit has %d qubits)", ErrQubitIndexOutOfRange, q, c.numQubits)
		}
		for _, prev := range qubits[:i] {
			if prev == q {
				return fmt.Errorf("%w: %d", ErrDuplicateQubitIndices, q)
			}
		}
	}
	return nil
}

func (c *Circuit) single(name string, q int, u Matrix, params ...float64) error {
	if err := c.ValidateQubits(q); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	c.state.ApplySingle(q, u)
	c.record(Op{Type: name, Target: q, Control: -1, Params: params, Cbit: -1, Outcome: -1})
	return nil
}

func (c *Circuit) controlled(name string, control, target int, u Matrix, params ...float64) error {
	if err := c.ValidateQubits(control, target); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	c.state.ApplyControlled(control, target, u)
	c.record(Op{Type: name, Target: target, Control: control, Params: params, Cbit: -1, Outcome: -1})
	return nil
}

// record appends op to the log and verifies the normalization invariant.
func (c *Circuit) record(op Op) {
	c.ops = append(c.ops, op)
	c.logger.Log(context.Background(), logging.LevelTrace, "gate",
		"type", op.Type, "target", op.Target, "control", op.Control, "params", op.Params)
	if !c.checks {
		return
	}
	if err := c.state.CheckNormalized(); err != nil {
		panic(fmt.Errorf("after %s on q[%d]: %w", op.Type, op.Target, err))
	}
}

func (c *Circuit) I(q int) error   { return c.single("I", q, I) }
func (c *Circuit) H(q int) error   { return c.single("H", q, H) }
func (c *Circuit) X(q int) error   { return c.single("X", q, X) }
func (c *Circuit) Y(q int) error   { return c.single("Y", q, Y) }
func (c *Circuit) Z(q int) error   { return c.single("Z", q, Z) }
func (c *Circuit) S(q int) error   { return c.single("S", q, S) }
func (c *Circuit) Sdg(q int) error { return c.single("SDG", q, Sdg) }
func (c *Circuit) T(q int) error   { return c.single("T", q, T) }
func (c *Circuit) Tdg(q int) error { return c.single("TDG", q, Tdg) }

func (c *Circuit) RX(q int, theta float64) error { return c.single("RX", q, RX(theta), theta) }
func (c *Circuit) RY(q int, theta float64) error { return c.single("RY", q, RY(theta), theta) }
func (c *Circuit) RZ(q int, theta float64) error { return c.single("RZ", q, RZ(theta), theta) }

// Apply applies an arbitrary single-qubit unitary. The log records it as
// the U3 angles of u, which reproduce u up to a global phase.
func (c *Circuit) Apply(q int, u Matrix) error {
	if !IsUnitary(u, NormTolerance) {
		return ErrNonUnitary
	}
	theta, phi, lambda := DecomposeU3(u)
	return c.single("U", q, u, theta, phi, lambda)
}

// U3 applies the OpenQASM u3(theta, phi, lambda) gate.
func (c *Circuit) U3(q int, theta, phi, lambda float64) error {
	return c.single("U", q, U3(theta, phi, lambda), theta, phi, lambda)
}

func (c *Circuit) CNOT(control, target int) error {
	return c.controlled("CX", control, target, X)
}

func (c *Circuit) CZ(control, target int) error {
	return c.controlled("CZ", control, target, Z)
}

func (c *Circuit) CRX(control, target int, theta float64) error {
	return c.controlled("CRX", control, target, RX(theta), theta)
}

// Run marks the end of the build phase. Gates are already applied, so Run
// only flags the circuit as ready for measurement and export.
func (c *Circuit) Run() {
	c.ready = true
	c.logger.Debug("circuit run", "qubits", c.numQubits, "ops", len(c.ops))
}

func (c *Circuit) Ready() bool { return c.ready }

// Measure measures qubit q, collapses the state and stores the outcome in
// classical bit q. Measuring again without intervening gates returns the
// same outcome.
func (c *Circuit) Measure(q int) (int, error) {
	return c.MeasureTo(q, q)
}

// MeasureTo is Measure with the outcome stored in classical bit cbit. The
// register has one bit per qubit.
func (c *Circuit) MeasureTo(q, cbit int) (int, error) {
	if err := c.ValidateQubits(q); err != nil {
		return 0, fmt.Errorf("measure: %w", err)
	}
	if cbit < 0 || cbit >= len(c.register) {
		return 0, fmt.Errorf("measure: %w: c[%d] (register has %d bits)", ErrCbitOutOfRange, cbit, len(c.register))
	}

	p0 := c.state.ProbabilityZero(q)
	var outcome int
	switch {
	case p0 >= 1-ProbTolerance:
		outcome = 0
	case p0 <= ProbTolerance:
		outcome = 1
	case c.rng.Float64() < p0:
		outcome = 0
	default:
		outcome = 1
	}

	if err := c.state.Collapse(q, outcome); err != nil {
		return 0, err
	}
	c.register[cbit] = outcome
	c.record(Op{Type: "MEASURE", Target: q, Control: -1, Cbit: cbit, Outcome: outcome})
	c.logger.Debug("measured qubit", "qubit", q, "cbit", cbit, "p0", p0, "outcome", outcome)
	return outcome, nil
}

// MeasureAll samples every qubit with one joint draw and returns the bits
// ordered by qubit index.
func (c *Circuit) MeasureAll() ([]int, error) {
	index := c.state.Sample(c.rng)

	out := make([]int, c.numQubits)
	for q := range out {
		out[q] = (index >> q) & 1
		c.register[q] = out[q]
		c.ops = append(c.ops, Op{Type: "MEASURE", Target: q, Control: -1, Cbit: q, Outcome: out[q]})
	}
	if c.checks {
		if err := c.state.CheckNormalized(); err != nil {
			panic(fmt.Errorf("after measure all: %w", err))
		}
	}
	c.logger.Debug("measured all qubits", "index", index, "bits", basisBits(index, c.numQubits))
	return out, nil
}

// Register returns a copy of the classical register; -1 marks unset bits.
func (c *Circuit) Register() []int {
	out := make([]int, len(c.register))
	copy(out, c.register)
	return out
}

// Ops returns a copy of the operation log.
func (c *Circuit) Ops() []Op {
	out := make([]Op, len(c.ops))
	copy(out, c.ops)
	return out
}

// State returns a copy of the state vector.
func (c *Circuit) State() *StateVector { return c.state.Clone() }

// StateSummary lists the reachable basis states with amplitude, probability
// and phase.
func (c *Circuit) StateSummary() []BasisState { return c.state.Summary() }

// Probabilities returns |a_i|² for every basis index.
func (c *Circuit) Probabilities() []float64 {
	out := make([]float64, len(c.state.Amplitudes))
	for i, a := range c.state.Amplitudes {
		out[i] = Prob(a)
	}
	return out
}

// QubitProbabilities returns the marginal probabilities of every qubit.
func (c *Circuit) QubitProbabilities() []QubitProbability {
	return c.state.QubitProbabilities()
}

package quantum

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestLoadQASMTeleportProgram(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c[3];

x q[0];
h q[1];
cx q[1], q[2];
cx q[0], q[1];
h q[0];
measure q[0] -> c[0];
measure q[1] -> c[1];
cx q[1], q[2];
cz q[0], q[2];
measure q[2] -> c[2];`

	c, err := LoadQASM(qasm, WithRand(NewSeededRand(3)))
	if err != nil {
		t.Fatalf("LoadQASM error: %v", err)
	}
	if c.NumQubits() != 3 {
		t.Fatalf("expected 3 qubits, got %d", c.NumQubits())
	}
	if !c.Ready() {
		t.Errorf("expected loaded circuit to be ready")
	}

	reg := c.Register()
	if reg[2] != 1 {
		t.Errorf("expected teleported qubit to measure 1, register %v", reg)
	}

	ops := c.Ops()
	if len(ops) != 10 {
		t.Fatalf("expected 10 ops, got %d", len(ops))
	}
	if ops[8].Type != "CZ" || ops[8].Control != 0 || ops[8].Target != 2 {
		t.Errorf("op 8: expected CZ q[0],q[2], got Type=%s Control=%d Target=%d",
			ops[8].Type, ops[8].Control, ops[8].Target)
	}
}

func TestLoadQASMErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"missing qreg", "h q[0];", ErrUnsupportedQASM},
		{"empty", "OPENQASM 2.0;", ErrUnsupportedQASM},
		{"unknown gate", "qreg q[2];\nccx q[0], q[1];", ErrUnsupportedQASM},
		{"two registers", "qreg q[2];\nqreg r[2];", ErrUnsupportedQASM},
		{"out of range", "qreg q[2];\nx q[4];", ErrQubitIndexOutOfRange},
		{"duplicate", "qreg q[2];\ncx q[1], q[1];", ErrDuplicateQubitIndices},
		{"zero qubits", "qreg q[0];", ErrInvalidQubitCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadQASM(tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadQASM(%q) error = %v, want %v", tt.src, err, tt.want)
			}
		})
	}
}

func TestQASMRoundTrip(t *testing.T) {
	c, err := New(3)
	if err != nil {
		t.Fatal(err)
	}
	steps := []error{
		c.H(0),
		c.Sdg(1),
		c.Tdg(2),
		c.RX(0, math.Pi/2),
		c.RY(1, 3*math.Pi/4),
		c.RZ(2, -math.Pi),
		c.CNOT(0, 1),
		c.CZ(1, 2),
		c.CRX(2, 0, math.Pi/4),
		c.I(1),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	qasm := c.QASM()
	for _, want := range []string{
		"qreg q[3];",
		"h q[0];",
		"sdg q[1];",
		"tdg q[2];",
		"rx(pi/2) q[0];",
		"ry(3*pi/4) q[1];",
		"rz(-pi) q[2];",
		"cx q[0], q[1];",
		"cz q[1], q[2];",
		"crx(pi/4) q[2], q[0];",
		"id q[1];",
	} {
		if !strings.Contains(qasm, want) {
			t.Errorf("expected %q in QASM, got:\n%s", want, qasm)
		}
	}

	c2, err := LoadQASM(qasm)
	if err != nil {
		t.Fatalf("reloading exported QASM: %v", err)
	}

	want := c.State().Amplitudes
	got := c2.State().Amplitudes
	for i := range want {
		if d := want[i] - got[i]; math.Hypot(real(d), imag(d)) > 1e-9 {
			t.Errorf("amp[%d]: got %v, want %v", i, got[i], want[i])
		}
	}

	ops := c2.Ops()
	if len(ops) != len(steps) {
		t.Fatalf("round-trip: expected %d ops, got %d", len(steps), len(ops))
	}
	if math.Abs(ops[4].Params[0]-3*math.Pi/4) > 1e-10 {
		t.Errorf("op 4 param: got %g, want %g", ops[4].Params[0], 3*math.Pi/4)
	}
}

func TestQASMMeasureExport(t *testing.T) {
	c, err := New(2, WithRand(NewSeededRand(1)))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.X(1); err != nil {
		t.Fatal(err)
	}
	if _, err := c.MeasureAll(); err != nil {
		t.Fatal(err)
	}

	qasm := c.QASM()
	if !strings.Contains(qasm, "measure q[0] -> c[0];") || !strings.Contains(qasm, "measure q[1] -> c[1];") {
		t.Errorf("expected measure statements, got:\n%s", qasm)
	}
}

func TestQASMExportsArbitraryUnitary(t *testing.T) {
	u := Mul(RZ(0.4), Mul(RY(1.3), RX(-0.8)))

	c, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.H(1); err != nil {
		t.Fatal(err)
	}
	if err := c.Apply(0, u); err != nil {
		t.Fatal(err)
	}
	if err := c.CNOT(0, 1); err != nil {
		t.Fatal(err)
	}

	qasm := c.QASM()
	if strings.Contains(qasm, "//") || !strings.Contains(qasm, "u3(") {
		t.Fatalf("expected a u3 statement, got:\n%s", qasm)
	}

	loaded, err := LoadQASM(qasm)
	if err != nil {
		t.Fatalf("LoadQASM error: %v", err)
	}
	want, got := c.Probabilities(), loaded.Probabilities()
	for i := range want {
		if math.Abs(want[i]-got[i]) > 1e-9 {
			t.Errorf("P(%d): want %v, got %v", i, want[i], got[i])
		}
	}
}

func TestLoadQASMU3(t *testing.T) {
	c, err := LoadQASM("qreg q[1];\nu3(pi/2, 0, pi) q[0];")
	if err != nil {
		t.Fatalf("LoadQASM error: %v", err)
	}
	amps := c.State().Amplitudes
	if math.Abs(real(amps[0])-1/math.Sqrt2) > 1e-9 || math.Abs(real(amps[1])-1/math.Sqrt2) > 1e-9 {
		t.Errorf("u3(pi/2,0,pi) should act as H, got %v", amps)
	}

	if _, err := LoadQASM("qreg q[1];\nu3(pi/2, 0) q[0];"); !errors.Is(err, ErrUnsupportedQASM) {
		t.Errorf("expected ErrUnsupportedQASM for two angles, got %v", err)
	}
}

func TestLoadQASMMeasureHonorsCbit(t *testing.T) {
	qasm := `qreg q[2];
creg c[2];
x q[0];
measure q[0] -> c[1];`

	c, err := LoadQASM(qasm)
	if err != nil {
		t.Fatalf("LoadQASM error: %v", err)
	}
	if reg := c.Register(); reg[0] != -1 || reg[1] != 1 {
		t.Errorf("expected register [-1 1], got %v", reg)
	}
	if !strings.Contains(c.QASM(), "measure q[0] -> c[1];") {
		t.Errorf("export lost the classical bit:\n%s", c.QASM())
	}

	if _, err := LoadQASM("qreg q[2];\nmeasure q[0] -> c[2];"); !errors.Is(err, ErrCbitOutOfRange) {
		t.Errorf("expected ErrCbitOutOfRange, got %v", err)
	}
}

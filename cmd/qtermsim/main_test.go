package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// isolateHome sets HOME to a temp directory to avoid reading a real
// ~/.qtermsim/config.yaml.
func isolateHome(t *testing.T) {
	t.Helper()
	tmpHome := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(tmpHome, 0700); err != nil {
		t.Fatalf("Failed to create temp home: %v", err)
	}
	t.Setenv("HOME", tmpHome)
	t.Setenv("QTERMSIM_LOG_LEVEL", "")
	t.Setenv("QTERMSIM_SEED", "")
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func executeJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := execute(t, append(args, "--json")...)
	if err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("invalid JSON from %v: %v\n%s", args, err, out)
	}
}

type stateOut struct {
	Qubits   int   `json:"qubits"`
	Register []int `json:"register"`
	States   []struct {
		Bits        string  `json:"bits"`
		Index       int     `json:"index"`
		Re          float64 `json:"re"`
		Probability float64 `json:"probability"`
	} `json:"states"`
	Reduced []struct {
		Prob1 float64 `json:"p1"`
	} `json:"reduced"`
	QASM string `json:"qasm"`
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("version output = %q, want it to contain %q", out, version)
	}
}

func TestBellCommand(t *testing.T) {
	isolateHome(t)

	var got struct {
		Kind  string   `json:"kind"`
		State stateOut `json:"state"`
	}
	executeJSON(t, &got, "bell", "phi+")
	if got.Kind != "phi+" {
		t.Errorf("kind = %q, want phi+", got.Kind)
	}
	if len(got.State.States) != 2 {
		t.Fatalf("got %d basis states, want 2", len(got.State.States))
	}
	for i, want := range []int{0, 3} {
		s := got.State.States[i]
		if s.Index != want || !near(s.Probability, 0.5) {
			t.Errorf("state %d = index %d p=%v, want index %d p=0.5", i, s.Index, s.Probability, want)
		}
	}
	if !strings.Contains(got.State.QASM, "cx q[0], q[1];") {
		t.Errorf("qasm missing cx:\n%s", got.State.QASM)
	}
}

func TestBellCommandMeasure(t *testing.T) {
	isolateHome(t)

	for seed := range 8 {
		var got struct {
			State stateOut `json:"state"`
		}
		executeJSON(t, &got, "bell", "psi-", "--measure", "--seed", strconv.Itoa(seed+1))
		reg := got.State.Register
		if len(reg) != 2 || reg[0] == reg[1] {
			t.Errorf("seed %d: register %v, want anti-correlated bits", seed+1, reg)
		}
	}
}

func TestBellCommandRejectsKind(t *testing.T) {
	isolateHome(t)
	if _, err := execute(t, "bell", "ghz"); err == nil {
		t.Error("expected error for unknown Bell state")
	}
}

func TestSuperdenseCommand(t *testing.T) {
	isolateHome(t)

	for _, msg := range []string{"00", "01", "10", "11"} {
		var got struct {
			Sent    string `json:"sent"`
			Decoded string `json:"decoded"`
		}
		executeJSON(t, &got, "sdc", msg, "--seed", "9")
		if got.Decoded != msg {
			t.Errorf("sdc %s decoded %q", msg, got.Decoded)
		}
	}

	if _, err := execute(t, "sdc", "2"); err == nil {
		t.Error("expected error for invalid message")
	}
}

func TestTeleportCommand(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		name   string
		args   []string
		wantP1 float64
	}{
		{"basis one", nil, 1},
		{"basis zero", []string{"--source", "0"}, 0},
		{"unconditional", []string{"--unconditional"}, 1},
		{"arbitrary", []string{"--theta", "pi/3"}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				M0     int                `json:"m0"`
				M1     int                `json:"m1"`
				Target map[string]float64 `json:"target"`
				State  stateOut           `json:"state"`
			}
			args := append([]string{"teleport", "--seed", "5"}, tt.args...)
			executeJSON(t, &got, args...)
			if math.Abs(got.Target["p1"]-tt.wantP1) > 1e-7 {
				t.Errorf("q[2] P(1) = %v, want %v", got.Target["p1"], tt.wantP1)
			}
			if got.State.Register[0] != got.M0 || got.State.Register[1] != got.M1 {
				t.Errorf("register %v does not match M0=%d M1=%d", got.State.Register, got.M0, got.M1)
			}
		})
	}

	if _, err := execute(t, "teleport", "--source", "2"); err == nil {
		t.Error("expected error for invalid source")
	}
}

func TestCoinCommand(t *testing.T) {
	isolateHome(t)

	for _, flip := range []string{"--flip=false", "--flip=true"} {
		var got struct {
			MachineWins bool `json:"machineWins"`
		}
		executeJSON(t, &got, "coin", flip)
		if !got.MachineWins {
			t.Errorf("coin %s: machine lost", flip)
		}
	}

	out, err := execute(t, "coin")
	if err != nil {
		t.Fatalf("coin failed: %v", err)
	}
	if strings.TrimSpace(out) != "Quantum computer wins!" {
		t.Errorf("coin output = %q", out)
	}
}

func TestRandomCommand(t *testing.T) {
	isolateHome(t)

	for range 20 {
		var got struct {
			Value int `json:"value"`
		}
		executeJSON(t, &got, "random", "9", "--min", "3")
		if got.Value < 3 || got.Value > 9 {
			t.Fatalf("value %d outside [3, 9]", got.Value)
		}
	}

	var s struct {
		Value string `json:"value"`
	}
	executeJSON(t, &s, "random", "12", "--string", "--seed", "4")
	if len(s.Value) != 12 {
		t.Errorf("random string %q has length %d, want 12", s.Value, len(s.Value))
	}

	if _, err := execute(t, "random", "5", "--min", "6"); err == nil {
		t.Error("expected error for empty range")
	}
	if _, err := execute(t, "random", "ten"); err == nil {
		t.Error("expected error for non-numeric MAX")
	}
}

type qaoaOut struct {
	Nodes int      `json:"nodes"`
	Edges []string `json:"edges"`
	Best  struct {
		Score int       `json:"score"`
		Beta  []float64 `json:"beta"`
		Gamma []float64 `json:"gamma"`
	} `json:"best"`
	MaxCut int `json:"maxCut"`
	Trials []struct {
		ID   string `json:"id"`
		Seed uint64 `json:"seed"`
	} `json:"trials"`
	QASM string `json:"qasm"`
}

func TestQAOACommand(t *testing.T) {
	isolateHome(t)

	var got qaoaOut
	executeJSON(t, &got, "qaoa", "--seed", "42", "--iterations", "50", "--steps", "2", "--qasm")
	if got.Nodes != 5 || len(got.Edges) != 6 {
		t.Errorf("default graph has %d nodes and %d edges, want K(3,2)", got.Nodes, len(got.Edges))
	}
	if got.MaxCut != 6 {
		t.Errorf("max cut = %d, want 6", got.MaxCut)
	}
	if got.Best.Score < 0 || got.Best.Score > got.MaxCut {
		t.Errorf("score %d outside [0, %d]", got.Best.Score, got.MaxCut)
	}
	if len(got.Best.Beta) != 2 || len(got.Best.Gamma) != 2 {
		t.Errorf("got %d/%d angles, want 2 layers", len(got.Best.Beta), len(got.Best.Gamma))
	}
	if !strings.Contains(got.QASM, "qreg q[5];") || strings.Contains(got.QASM, "measure") {
		t.Errorf("unexpected ansatz program:\n%s", got.QASM)
	}
}

func TestQAOACommandTrials(t *testing.T) {
	isolateHome(t)

	var got qaoaOut
	executeJSON(t, &got, "qaoa", "--seed", "7", "--iterations", "20", "--trials", "3",
		"--edge", "0-1", "--edge", "1-2:2", "--edge", "2-0")
	if got.Nodes != 3 {
		t.Errorf("nodes = %d, want 3", got.Nodes)
	}
	if got.MaxCut != 2 {
		t.Errorf("max cut = %d, want 2", got.MaxCut)
	}
	if len(got.Trials) != 3 {
		t.Fatalf("got %d trials, want 3", len(got.Trials))
	}
	for i, tr := range got.Trials {
		if tr.ID == "" {
			t.Errorf("trial %d has no id", i)
		}
		if tr.Seed != 7+uint64(i) {
			t.Errorf("trial %d seed = %d, want %d", i, tr.Seed, 7+i)
		}
	}
}

func TestQAOACommandRejectsGraph(t *testing.T) {
	isolateHome(t)

	tests := [][]string{
		{"qaoa", "--edge", "0-0"},
		{"qaoa", "--edge", "a-b"},
		{"qaoa", "--nodes", "3"},
		{"qaoa", "--edge", "0-3", "--nodes", "2"},
		{"qaoa", "--steps", "0"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestRunCommand(t *testing.T) {
	isolateHome(t)

	path := filepath.Join(t.TempDir(), "ghz.qasm")
	program := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[3];
creg c[3];
h q[0];
cx q[0], q[1];
cx q[1], q[2];
`
	if err := os.WriteFile(path, []byte(program), 0o644); err != nil {
		t.Fatal(err)
	}

	var got stateOut
	executeJSON(t, &got, "run", path)
	if got.Qubits != 3 {
		t.Errorf("qubits = %d, want 3", got.Qubits)
	}
	if len(got.States) != 2 || got.States[0].Bits != "000" || got.States[1].Bits != "111" {
		t.Errorf("unexpected states %+v", got.States)
	}

	out, err := execute(t, "run", path)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "|111⟩") {
		t.Errorf("text output missing |111⟩:\n%s", out)
	}

	if _, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.qasm")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigCommand(t *testing.T) {
	isolateHome(t)

	var got struct {
		Logging struct {
			Level string `json:"level"`
		} `json:"logging"`
		Simulator struct {
			Seed uint64 `json:"seed"`
		} `json:"simulator"`
	}
	executeJSON(t, &got, "config", "--seed", "11", "--log-level", "debug")
	if got.Simulator.Seed != 11 {
		t.Errorf("seed = %d, want 11", got.Simulator.Seed)
	}
	if got.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", got.Logging.Level)
	}

	out, err := execute(t, "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(out, "max_qubits:") {
		t.Errorf("yaml output missing max_qubits:\n%s", out)
	}

	if _, err := execute(t, "config", "--log-level", "loud"); err == nil {
		t.Error("expected error for invalid log level")
	}
	if _, err := execute(t, "config", "--config", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

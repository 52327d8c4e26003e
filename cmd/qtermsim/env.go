package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/cmplx"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"qtermsim/internal/config"
	"qtermsim/internal/logging"
	"qtermsim/quantum"
)

// env is the effective configuration of one command invocation.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	json   bool
}

// loadEnv merges config file, environment and persistent flags.
func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("seed") {
		cfg.Simulator.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	return &env{
		cfg:    cfg,
		logger: logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()),
		json:   jsonOut,
	}, nil
}

// circuitOptions returns the options for the circuits of one command. Call
// it once per command so a seeded source is shared across its circuits.
func (e *env) circuitOptions() []quantum.Option {
	return append(e.cfg.CircuitOptions(), quantum.WithLogger(e.logger))
}

// simulatorOptions is circuitOptions without the seeded source, for callers
// that supply their own.
func (e *env) simulatorOptions() []quantum.Option {
	return []quantum.Option{
		quantum.WithMaxQubits(e.cfg.Simulator.MaxQubits),
		quantum.WithInvariantChecks(e.cfg.Simulator.CheckNormalization),
		quantum.WithLogger(e.logger),
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff9e64"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

type amplitudeJSON struct {
	Bits        string  `json:"bits"`
	Index       int     `json:"index"`
	Re          float64 `json:"re"`
	Im          float64 `json:"im"`
	Probability float64 `json:"probability"`
	Phase       float64 `json:"phase"`
}

type qubitJSON struct {
	Qubit      int                 `json:"qubit"`
	Prob1      float64             `json:"p1"`
	Bloch      quantum.BlochVector `json:"bloch"`
	Theta      float64             `json:"theta"`
	Phi        float64             `json:"phi"`
	Cbit       *int                `json:"cbit,omitempty"`
	Amplitude0 [2]float64          `json:"amplitude0"`
	Amplitude1 [2]float64          `json:"amplitude1"`
}

type stateJSON struct {
	Qubits   int             `json:"qubits"`
	Register []int           `json:"register"`
	States   []amplitudeJSON `json:"states"`
	Reduced  []qubitJSON     `json:"reduced"`
	QASM     string          `json:"qasm,omitempty"`
}

func stateReport(c *quantum.Circuit, withQASM bool) stateJSON {
	out := stateJSON{Qubits: c.NumQubits(), Register: c.Register()}
	for _, b := range c.StateSummary() {
		out.States = append(out.States, amplitudeJSON{
			Bits:        b.Bits,
			Index:       b.Index,
			Re:          real(b.Amplitude),
			Im:          imag(b.Amplitude),
			Probability: b.Probability,
			Phase:       b.Phase,
		})
	}
	for q := range c.NumQubits() {
		st, err := c.ReducedQubitState(q)
		if err != nil {
			continue
		}
		entry := qubitJSON{
			Qubit:      q,
			Prob1:      st.Probability1,
			Bloch:      st.Bloch,
			Theta:      st.Spherical.Theta,
			Phi:        st.Spherical.Phi,
			Amplitude0: [2]float64{real(st.Amplitude0), imag(st.Amplitude0)},
			Amplitude1: [2]float64{real(st.Amplitude1), imag(st.Amplitude1)},
		}
		if bit := out.Register[q]; bit >= 0 {
			entry.Cbit = &bit
		}
		out.Reduced = append(out.Reduced, entry)
	}
	if withQASM {
		out.QASM = c.QASM()
	}
	return out
}

// printState writes the basis-state table and the per-qubit view.
func printState(cmd *cobra.Command, c *quantum.Circuit) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("state (%d qubits, |q%d…q0⟩)", c.NumQubits(), c.NumQubits()-1)))
	for _, b := range c.StateSummary() {
		fmt.Fprintf(w, "  %s  %-18s  p=%.4f  %s\n",
			labelStyle.Render("|"+b.Bits+"⟩"),
			quantum.FormatComplex(b.Amplitude, 4),
			b.Probability,
			dimStyle.Render(fmt.Sprintf("|a|=%.4f φ=%s", cmplx.Abs(b.Amplitude), quantum.FormatAngle(b.Phase))),
		)
	}

	register := c.Register()
	for q := range c.NumQubits() {
		st, err := c.ReducedQubitState(q)
		if err != nil {
			continue
		}
		line := fmt.Sprintf("  %s  P(1)=%.4f  θ=%.4f φ=%.4f  bloch=(%.3f, %.3f, %.3f)",
			labelStyle.Render(fmt.Sprintf("q[%d]", q)), st.Probability1,
			st.Spherical.Theta, st.Spherical.Phi,
			st.Bloch.X, st.Bloch.Y, st.Bloch.Z)
		if register[q] >= 0 {
			line += fmt.Sprintf("  c[%d]=%d", q, register[q])
		}
		fmt.Fprintln(w, line)
	}
}

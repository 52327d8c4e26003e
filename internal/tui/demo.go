package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"qtermsim/protocol"
	"qtermsim/qaoa"
	"qtermsim/quantum"
)

// qaoaDoneMsg carries the optimizer result back to Update.
type qaoaDoneMsg struct {
	circuit *quantum.Circuit
	title   string
	result  string
	err     error
}

// applyGate applies gateType with the cursor qubit as target, or as control
// when target >= 0.
func (m *Model) applyGate(gateType string, target int, params []float64) {
	c, q := m.circuit, m.cursorQubit
	theta := 0.0
	if len(params) > 0 {
		theta = params[0]
	}

	var err error
	switch gateType {
	case "H":
		err = c.H(q)
	case "X":
		err = c.X(q)
	case "Y":
		err = c.Y(q)
	case "Z":
		err = c.Z(q)
	case "S":
		err = c.S(q)
	case "SDG":
		err = c.Sdg(q)
	case "T":
		err = c.T(q)
	case "TDG":
		err = c.Tdg(q)
	case "RX":
		err = c.RX(q, theta)
	case "RY":
		err = c.RY(q, theta)
	case "RZ":
		err = c.RZ(q, theta)
	case "CX":
		err = c.CNOT(q, target)
	case "CZ":
		err = c.CZ(q, target)
	case "CRX":
		err = c.CRX(q, target, theta)
	case "MEASURE":
		var out int
		if out, err = c.Measure(q); err == nil {
			m.result = fmt.Sprintf("q[%d] measured %d", q, out)
		}
	default:
		err = fmt.Errorf("unknown gate %q", gateType)
	}

	m.pendingGate = ""
	m.paramInput = ""
	if err != nil {
		m.setError(err)
		return
	}
	m.sync()
}

func (m *Model) measureAll() {
	bits, err := m.circuit.MeasureAll()
	if err != nil {
		m.setError(err)
		return
	}
	m.result = "measured " + bitString(bits)
	m.sync()
}

// bitString prints bits with qubit 0 first.
func bitString(bits []int) string {
	var sb strings.Builder
	for _, b := range bits {
		fmt.Fprintf(&sb, "%d", b)
	}
	return sb.String()
}

// runDemo replaces the current circuit with the outcome of item. Only the
// QAOA demo runs in the background; the returned command is nil otherwise.
func (m *Model) runDemo(item menuItem) tea.Cmd {
	opts := m.settings.CircuitOptions
	m.logger.Debug("running demo", "name", item.name)

	switch item.action {
	case actMeasureAll:
		m.measureAll()

	case actBell:
		c, err := quantum.New(2, opts...)
		if err == nil {
			err = protocol.PrepareBell(c, item.bell, 0, 1)
		}
		if err != nil {
			m.setError(err)
			return nil
		}
		c.Run()
		m.setCircuit(c, "Bell state "+item.name, "")

	case actTeleport:
		c, err := quantum.New(3, opts...)
		if err != nil {
			m.setError(err)
			return nil
		}
		if item.source == "1" {
			err = c.X(0)
		} else {
			err = c.RY(0, math.Pi/3)
		}
		var res protocol.Teleportation
		if err == nil {
			res, err = protocol.Teleport(c)
		}
		if err != nil {
			m.setError(err)
			return nil
		}
		m.setCircuit(c, item.name, fmt.Sprintf("M0=%d M1=%d, q[2] now holds the input", res.M0, res.M1))

	case actSuperdense:
		res, err := protocol.SendTwoBits(item.message, opts...)
		if err != nil {
			m.setError(err)
			return nil
		}
		m.setCircuit(res.Circuit, item.name, fmt.Sprintf("sent %s, decoded %s", item.message, res.Message))

	case actCoin:
		out, err := protocol.CoinGame(item.flip, opts...)
		if err != nil {
			m.setError(err)
			return nil
		}
		m.result = out.String()
		m.stateView.SetContent(m.renderState())

	case actRandom:
		n, err := protocol.RandomNumber(9, opts...)
		if err != nil {
			m.setError(err)
			return nil
		}
		m.result = fmt.Sprintf("random number: %d", n)
		m.stateView.SetContent(m.renderState())

	case actQAOA:
		m.running = true
		return tea.Batch(m.spinner.Tick, runQAOA(m.settings))
	}
	return nil
}

// runQAOA optimizes the configured graph and rebuilds the unmeasured ansatz
// at the best parameters so its distribution can be inspected.
func runQAOA(s Settings) tea.Cmd {
	return func() tea.Msg {
		res, err := qaoa.Optimize(s.Graph, s.QAOASteps, s.QAOAOptions...)
		if err != nil {
			return qaoaDoneMsg{err: err}
		}
		c, err := qaoa.BuildAnsatz(s.Graph, qaoa.Params{Beta: res.Beta, Gamma: res.Gamma}, s.CircuitOptions...)
		if err != nil {
			return qaoaDoneMsg{err: err}
		}
		c.Run()

		best, _ := qaoa.MaxCut(s.Graph)
		params := make([]string, len(res.Beta))
		for i := range res.Beta {
			params[i] = fmt.Sprintf("β=%s γ=%s", quantum.FormatAngle(res.Beta[i]), quantum.FormatAngle(res.Gamma[i]))
		}
		return qaoaDoneMsg{
			circuit: c,
			title:   fmt.Sprintf("QAOA max-cut, %d nodes, p=%d", len(s.Graph.Nodes), s.QAOASteps),
			result:  fmt.Sprintf("best cut %d/%d  %s", res.Score, best, strings.Join(params, "  ")),
		}
	}
}

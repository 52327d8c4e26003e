// Package tui is an interactive terminal front end for the simulator. It
// shows the state vector of the current circuit, lets the user apply gates
// to it, and runs the protocol and QAOA demos.
package tui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qtermsim/internal/logging"
	"qtermsim/qaoa"
	"qtermsim/quantum"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusState focus = iota
	focusQASM
	focusMenu
	focusSelectTarget
	focusInputParam
)

const maxSandboxQubits = 8

// Settings configures the circuits and demos the TUI creates.
type Settings struct {
	NumQubits      int
	CircuitOptions []quantum.Option
	Graph          qaoa.Graph
	QAOASteps      int
	QAOAOptions    []qaoa.Option
	SavePath       string
	Logger         *slog.Logger
}

// Model represents the TUI application state.
type Model struct {
	settings Settings
	logger   *slog.Logger

	circuit   *quantum.Circuit
	title     string // what produced the current circuit
	result    string // outcome of the last demo
	statusMsg string // transient status message (e.g. save confirmation)
	statusErr bool

	cursorQubit int
	width       int
	height      int
	focus       focus

	stateView  viewport.Model
	qasmEditor textarea.Model
	lastQASM   string
	spinner    spinner.Model
	running    bool

	// Menu state
	menuCat  int
	menuItem int

	// Pending gate state (targets and parameters)
	pendingGate string
	targetQubit int
	paramInput  string
}

// New returns a model holding an empty circuit of s.NumQubits qubits.
func New(s Settings) Model {
	if s.NumQubits <= 0 {
		s.NumQubits = 3
	}
	if s.QAOASteps <= 0 {
		s.QAOASteps = 1
	}
	if len(s.Graph.Nodes) == 0 {
		s.Graph = qaoa.CompleteBipartite(3, 2)
	}
	if s.SavePath == "" {
		s.SavePath = "circuit.qasm"
	}
	logger := s.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.KeyMap.InsertNewline.SetEnabled(true)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeGateStyle

	m := Model{
		settings:   s,
		logger:     logger,
		stateView:  viewport.New(60, 20),
		qasmEditor: ta,
		spinner:    sp,
		focus:      focusState,
	}
	m.resetCircuit(s.NumQubits)
	return m
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(s Settings) error {
	_, err := tea.NewProgram(New(s), tea.WithAltScreen()).Run()
	return err
}

// resetCircuit replaces the current circuit with |0…0⟩ on n qubits.
func (m *Model) resetCircuit(n int) {
	c, err := quantum.New(n, m.settings.CircuitOptions...)
	if err != nil {
		m.setError(err)
		return
	}
	m.setCircuit(c, fmt.Sprintf("Sandbox (%d qubits)", n), "")
}

func (m *Model) setCircuit(c *quantum.Circuit, title, result string) {
	m.circuit = c
	m.title = title
	m.result = result
	m.cursorQubit = min(m.cursorQubit, c.NumQubits()-1)
	m.sync()
}

// sync refreshes the QASM editor and state panel from the circuit.
func (m *Model) sync() {
	qasm := m.circuit.QASM()
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
	m.stateView.SetContent(m.renderState())
}

func (m *Model) setStatus(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setErrorf(format string, args ...any) {
	m.setError(fmt.Errorf(format, args...))
}

func (m *Model) setError(err error) {
	m.statusMsg = err.Error()
	m.statusErr = true
	m.logger.Debug("tui error", "error", err)
}

// loadQASMInput replaces the circuit with the editor contents if they changed.
func (m *Model) loadQASMInput() {
	qasm := m.qasmEditor.Value()
	if qasm == m.lastQASM {
		return
	}
	c, err := quantum.LoadQASM(qasm, m.settings.CircuitOptions...)
	if err != nil {
		m.setError(err)
		m.qasmEditor.SetValue(m.lastQASM)
		return
	}
	m.setCircuit(c, "QASM program", "")
	m.setStatus("Loaded %d ops", len(c.Ops()))
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qasmW := max(msg.Width/3-4, minQASMWidth)
		panelH := max(msg.Height-controlsH-2, minPanelH)
		m.qasmEditor.SetWidth(qasmW)
		m.qasmEditor.SetHeight(max(panelH-4, 4))
		m.stateView.Width = max(msg.Width-qasmW-10, 20)
		m.stateView.Height = max(panelH-4, 2)
		m.stateView.SetContent(m.renderState())

	case spinner.TickMsg:
		if m.running {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case qaoaDoneMsg:
		m.running = false
		if msg.err != nil {
			m.setError(msg.err)
			break
		}
		m.setCircuit(msg.circuit, msg.title, msg.result)

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		if m.running {
			break
		}
		m.statusMsg, m.statusErr = "", false

		switch m.focus {
		case focusState:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmEditor.Focus()
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
					m.stateView.SetContent(m.renderState())
				}
			case "down", "j":
				if m.cursorQubit < m.circuit.NumQubits()-1 {
					m.cursorQubit++
					m.stateView.SetContent(m.renderState())
				}
			case "+", "=":
				if n := m.circuit.NumQubits(); n < maxSandboxQubits {
					m.resetCircuit(n + 1)
				}
			case "-":
				if n := m.circuit.NumQubits(); n > 1 {
					m.resetCircuit(n - 1)
				}
			case "ctrl+r":
				m.resetCircuit(m.circuit.NumQubits())
			case "ctrl+s":
				if err := os.WriteFile(m.settings.SavePath, []byte(m.circuit.QASM()), 0644); err != nil {
					m.setErrorf("save: %w", err)
				} else {
					m.setStatus("Saved %s", m.settings.SavePath)
				}
			case "m":
				m.applyGate("MEASURE", -1, nil)
			case "M":
				m.measureAll()
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			default:
				var cmd tea.Cmd
				m.stateView, cmd = m.stateView.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusState
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(demoMenu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(demoMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := demoMenu[m.menuCat].items[m.menuItem]
				m.focus = focusState
				if item.action != actGate {
					cmds = append(cmds, m.runDemo(item))
					break
				}
				m.pendingGate = item.gateType
				m.paramInput = ""
				switch {
				case item.needsParams:
					m.focus = focusInputParam
				case item.needsTarget:
					m.beginTargetSelect()
				default:
					m.applyGate(item.gateType, -1, nil)
				}
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusState
				m.paramInput = ""
				m.pendingGate = ""
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.circuit.NumQubits(); next++ {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				params, _ := quantum.ParseAngles(m.paramInput)
				m.applyGate(m.pendingGate, m.targetQubit, params)
				m.focus = focusState
			}

		case focusInputParam:
			switch key {
			case "esc":
				m.focus = focusState
				m.paramInput = ""
				m.pendingGate = ""
			case "backspace":
				if len(m.paramInput) > 0 {
					m.paramInput = m.paramInput[:len(m.paramInput)-1]
				}
			case "enter":
				params, err := quantum.ParseAngles(m.paramInput)
				if err != nil || len(params) != 1 {
					m.setErrorf("invalid parameter %q, use a number or pi expression (e.g. pi/2, 3*pi/4)", m.paramInput)
					break
				}
				if m.pendingGate == "CRX" {
					m.beginTargetSelect()
					break
				}
				m.applyGate(m.pendingGate, -1, params)
				m.focus = focusState
			default:
				if len(key) == 1 && strings.ContainsAny(key, "0123456789.-+eEpi*/") {
					m.paramInput += key
				}
			}

		case focusQASM:
			switch key {
			case "tab":
				m.focus = focusState
				m.qasmEditor.Blur()
				m.loadQASMInput()
			case "esc":
				m.focus = focusState
				m.qasmEditor.Blur()
				m.qasmEditor.SetValue(m.lastQASM)
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) beginTargetSelect() {
	if m.circuit.NumQubits() < 2 {
		m.setErrorf("%s needs at least 2 qubits", m.pendingGate)
		m.focus = focusState
		return
	}
	m.focus = focusSelectTarget
	m.targetQubit = m.cursorQubit + 1
	if m.targetQubit >= m.circuit.NumQubits() {
		m.targetQubit = m.cursorQubit - 1
	}
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	stateWidth := m.width - qasmWidth - 4
	panelHeight := max(m.height-controlsH-2, minPanelH)

	statePanel := m.renderStatePanel(stateWidth, panelHeight)
	qasmPanel := m.renderQASMPanel(qasmWidth, panelHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsH-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, statePanel, qasmPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusInputParam:
		frame = overlayAt(frame, m.renderParamInput(), 2, 2)
	}
	return frame
}

package tui

import (
	"fmt"
	"strings"

	"qtermsim/quantum"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// probBar draws p as a bar of barW cells.
func probBar(p float64) string {
	filled := min(max(int(p*barW+0.5), 0), barW)
	return barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barW-filled))
}

// signed formats v with an explicit sign so columns line up.
func signed(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderState lists the reachable basis states and a per-qubit view. It is
// the content of the scrollable state viewport.
func (m Model) renderState() string {
	if m.circuit == nil {
		return ""
	}
	var sb strings.Builder
	n := m.circuit.NumQubits()

	fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf("basis |q%d…q0⟩", n-1)))
	for _, b := range m.circuit.StateSummary() {
		fmt.Fprintf(&sb, "%s  %-18s %s %6.2f%%  %s\n",
			qubitLabelStyle.Render("|"+b.Bits+"⟩"),
			quantum.FormatComplex(b.Amplitude, 3),
			probBar(b.Probability),
			b.Probability*100,
			dimStyle.Render("φ "+quantum.FormatAngle(b.Phase)),
		)
	}

	sb.WriteString("\n")
	register := m.circuit.Register()
	for q := range n {
		st, err := m.circuit.ReducedQubitState(q)
		if err != nil {
			continue
		}
		label := fmt.Sprintf("q[%d]", q)
		if q == m.cursorQubit {
			sb.WriteString(cursorStyle.Render("▸ " + label))
		} else {
			sb.WriteString("  " + qubitLabelStyle.Render(label))
		}
		fmt.Fprintf(&sb, "  P(1) %.3f  bloch (%s, %s, %s)",
			st.Probability1, signed(st.Bloch.X), signed(st.Bloch.Y), signed(st.Bloch.Z))
		if register[q] >= 0 {
			sb.WriteString(cbitLabelStyle.Render(fmt.Sprintf("  c[%d]=%d", q, register[q])))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderStatePanel renders the state viewport with its title and status.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title))
	if m.running {
		sb.WriteString("  " + m.spinner.View() + dimStyle.Render(" optimizing…"))
	}
	sb.WriteString("\n")
	if m.result != "" {
		sb.WriteString(activeGateStyle.Render(m.result))
	}
	sb.WriteString("\n")

	sb.WriteString(m.stateView.View())
	sb.WriteString("\n")

	if m.focus == focusSelectTarget {
		fmt.Fprintf(&sb, "  %s", activeGateStyle.Render(m.pendingGate))
		sb.WriteString("  control ")
		sb.WriteString(cursorStyle.Render(fmt.Sprintf("q[%d]", m.cursorQubit)))
		sb.WriteString("  target: ")
		sb.WriteString(targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	} else if m.statusMsg != "" {
		if m.statusErr {
			sb.WriteString("  " + errorStyle.Render(m.statusMsg))
		} else {
			sb.WriteString("  " + activeGateStyle.Render(m.statusMsg))
		}
	}

	return stateStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the QASM editor panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "OpenQASM"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmEditor.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Qubit  PgUp/PgDn Scroll  +/- Qubits")
	sb.WriteString("    ")
	sb.WriteString(activeGateStyle.Render("a"))
	sb.WriteString(" Gates & demos\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("m Measure  M Measure all  Tab QASM (Tab loads, Esc reverts)  ^R Reset  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// renderParamInput renders parameter input overlay.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Angle for " + m.pendingGate))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Value: %s_", m.paramInput)
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Examples: pi/2, 3*pi/4, 1.57"))
	return menuBorderStyle.Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at
// position (x, y), counting only visible columns.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// isEscEnd reports whether r terminates a CSI escape sequence.
func isEscEnd(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// spliceLineAt replaces the visible columns [x, x+width(overlay)) of bgLine
// with overlay, keeping escape sequences outside that range.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix, suffix strings.Builder
	col, i := 0, 0

	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			prefix.WriteRune(runes[i])
			i++
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				i++
				if isEscEnd(runes[i-1]) {
					break
				}
			}
			continue
		}
		prefix.WriteRune(runes[i])
		col++
		i++
	}
	for ; col < x; col++ {
		prefix.WriteRune(' ')
	}

	for skipped := 0; i < len(runes) && skipped < ovWidth; {
		if runes[i] == '\x1b' {
			i++
			for i < len(runes) {
				i++
				if isEscEnd(runes[i-1]) {
					break
				}
			}
			continue
		}
		skipped++
		i++
	}

	for ; i < len(runes); i++ {
		suffix.WriteRune(runes[i])
	}
	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-escape) runes in s.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if isEscEnd(r) {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}

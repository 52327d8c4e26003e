package tui

import (
	"fmt"
	"strings"

	"qtermsim/protocol"
)

// action is what selecting a menu item does.
type action int

const (
	actGate action = iota
	actMeasureAll
	actBell
	actTeleport
	actSuperdense
	actCoin
	actRandom
	actQAOA
)

// menuItem represents a single choice in the menu.
type menuItem struct {
	name        string
	symbol      string
	action      action
	gateType    string
	needsTarget bool
	needsParams bool
	paramHint   string

	bell    protocol.BellState
	message string
	flip    bool
	source  string // teleport input: "1" or "ry"
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

var demoMenu = []menuCategory{
	{
		name: "Gates",
		items: []menuItem{
			{name: "Hadamard", gateType: "H", symbol: "H"},
			{name: "Pauli-X (NOT)", gateType: "X", symbol: "X"},
			{name: "Pauli-Y", gateType: "Y", symbol: "Y"},
			{name: "Pauli-Z", gateType: "Z", symbol: "Z"},
			{name: "Phase (S)", gateType: "S", symbol: "S"},
			{name: "Phase Dagger (S†)", gateType: "SDG", symbol: "S†"},
			{name: "T Gate", gateType: "T", symbol: "T"},
			{name: "T Dagger (T†)", gateType: "TDG", symbol: "T†"},
			{name: "Rotate X", gateType: "RX", symbol: "RX", needsParams: true, paramHint: "pi/2"},
			{name: "Rotate Y", gateType: "RY", symbol: "RY", needsParams: true, paramHint: "pi/2"},
			{name: "Rotate Z", gateType: "RZ", symbol: "RZ", needsParams: true, paramHint: "pi/2"},
			{name: "CNOT", gateType: "CX", symbol: "●─⊕", needsTarget: true},
			{name: "Controlled-Z", gateType: "CZ", symbol: "●─●", needsTarget: true},
			{name: "C-Rotate X", gateType: "CRX", symbol: "●─RX", needsTarget: true, needsParams: true, paramHint: "pi/2"},
			{name: "Measure", gateType: "MEASURE", symbol: "M"},
			{name: "Measure All", action: actMeasureAll, symbol: "M*"},
		},
	},
	{
		name: "Bell",
		items: []menuItem{
			{name: "Φ+", action: actBell, bell: protocol.PhiPlus, symbol: "|00⟩+|11⟩"},
			{name: "Φ-", action: actBell, bell: protocol.PhiMinus, symbol: "|00⟩-|11⟩"},
			{name: "Ψ+", action: actBell, bell: protocol.PsiPlus, symbol: "|01⟩+|10⟩"},
			{name: "Ψ-", action: actBell, bell: protocol.PsiMinus, symbol: "|01⟩-|10⟩"},
		},
	},
	{
		name: "Protocols",
		items: []menuItem{
			{name: "Teleport |1⟩", action: actTeleport, source: "1", symbol: "q0→q2"},
			{name: "Teleport RY(π/3)", action: actTeleport, source: "ry", symbol: "q0→q2"},
			{name: "Superdense 00", action: actSuperdense, message: "00", symbol: "2 bits"},
			{name: "Superdense 01", action: actSuperdense, message: "01", symbol: "2 bits"},
			{name: "Superdense 10", action: actSuperdense, message: "10", symbol: "2 bits"},
			{name: "Superdense 11", action: actSuperdense, message: "11", symbol: "2 bits"},
		},
	},
	{
		name: "Games",
		items: []menuItem{
			{name: "Coin (keep)", action: actCoin, symbol: "H I H"},
			{name: "Coin (flip)", action: actCoin, flip: true, symbol: "H X H"},
			{name: "Random 0-9", action: actRandom, symbol: "H⊗n"},
		},
	},
	{
		name: "QAOA",
		items: []menuItem{
			{name: "Max-cut", action: actQAOA, symbol: "β,γ"},
		},
	},
}

// renderMenu renders the floating menu popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Run"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range demoMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(demoMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 42)))
	sb.WriteString("\n")

	cat := demoMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-*s", menuNameW, item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-*s", menuNameW, item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.needsTarget {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		if item.needsParams {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%s)", item.paramHint)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}

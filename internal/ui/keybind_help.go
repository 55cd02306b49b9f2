package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func newHelpModel() help.Model {
	m := help.New()
	m.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	m.Styles.ShortDesc = Styles.Muted
	m.Styles.ShortSeparator = Styles.Muted
	return m
}

// RenderKeybindHelp produces the transient hint box shown after SPC.
// Only bindings that apply to mode are listed.
func RenderKeybindHelp(keyHandler *KeyHandler, mode AppMode) string {
	if keyHandler == nil || !keyHandler.LeaderWaiting {
		return ""
	}
	bindings := leaderKeyMap{registry: keyHandler.Registry, prefix: keyHandler.Prefix(), mode: mode}.ShortHelp()
	if len(bindings) == 0 {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1).
		MarginTop(1)
	return boxStyle.Render(Styles.Muted.Render(keyHandler.Prefix()) + " " + newHelpModel().ShortHelpView(bindings))
}

// RenderScreenHelp is the one-line hint bar under a screen: its own keys
// followed by the leader.
func RenderScreenHelp(reg *KeybindRegistry, mode AppMode, width int) string {
	if reg == nil {
		return ""
	}
	bindings := append(reg.ScreenHints(mode),
		key.NewBinding(key.WithKeys(" "), key.WithHelp(leaderSeq, "commands")))
	m := newHelpModel()
	m.Width = width
	return m.ShortHelpView(bindings)
}

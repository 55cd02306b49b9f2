package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/notify"
)

// LoadingView is the blocking loading layer with an animated spinner.
type LoadingView struct {
	spinner spinner.Model
	state   notify.LoadingState
	ticking bool
	style   lipgloss.Style
}

// NewLoadingView creates a hidden loading layer.
func NewLoadingView(style lipgloss.Style) *LoadingView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))
	return &LoadingView{spinner: s, style: style}
}

// Visible reports whether the layer is shown.
func (l *LoadingView) Visible() bool { return l.state.Visible }

// Sync applies controller state. It starts the spinner when the layer
// becomes visible.
func (l *LoadingView) Sync(st notify.LoadingState) tea.Cmd {
	l.state = st
	if st.Visible && !l.ticking {
		l.ticking = true
		return l.spinner.Tick
	}
	return nil
}

// Update advances the spinner while visible. A tick arriving after the
// layer is hidden ends the tick chain.
func (l *LoadingView) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return nil
	}
	if !l.state.Visible {
		l.ticking = false
		return nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(tick)
	return cmd
}

// View renders the layer, or "" when hidden.
func (l *LoadingView) View() string {
	if !l.state.Visible {
		return ""
	}
	return l.style.Render(l.spinner.View() + " " + l.state.Message)
}

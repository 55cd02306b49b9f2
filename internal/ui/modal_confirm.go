package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModal renders the controller's confirm prompt and answers it.
// Enter or y confirms; Esc or n cancels.
type ConfirmModal struct {
	Message string
	// Answered is set once a key resolved the prompt.
	Answered bool
	resolve  func(bool) bool
	boxStyle lipgloss.Style
}

// Ensure ConfirmModal implements View.
var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a modal for message. resolve receives the answer.
func NewConfirmModal(message string, resolve func(bool) bool, box lipgloss.Style) *ConfirmModal {
	return &ConfirmModal{
		Message:  message,
		resolve:  resolve,
		boxStyle: box,
	}
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || m.Answered {
		return m, nil
	}
	switch km.String() {
	case "enter", "y", "Y":
		m.answer(true)
	case "esc", "n", "N":
		m.answer(false)
	}
	return m, nil
}

func (m *ConfirmModal) answer(ok bool) {
	m.Answered = true
	if m.resolve != nil {
		m.resolve(ok)
	}
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := Styles.TitleWarning.Render(m.Message) + "\n\n"
	content += Styles.Hint.Render("y/Enter: confirm  n/Esc: cancel")
	return m.boxStyle.Render(content)
}

package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Overlay is a modal view that takes input before the screen. The view
// handles its own dismiss keys.
type Overlay struct {
	View View
}

// OverlayStack manages a stack of overlays (topmost receives input first).
type OverlayStack struct {
	Stack []Overlay
}

// Push adds an overlay to the top of the stack.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Pop removes and returns the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// Peek returns the top overlay without removing it.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Len returns the number of overlays in the stack.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// UpdateTop passes msg to the top overlay's Update and replaces its View with the result.
// Returns the cmd from the overlay's Update. Caller must run the cmd.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	newView, cmd := top.View.Update(msg)
	top.View = newView
	return cmd, true
}

// composeLayers stacks the rendered layers bottom to top: screen, toast,
// loading, confirm. A blocking layer (loading or confirm) covers the screen
// and is centered in the window; the toast stays on the first line.
func composeLayers(width, height int, screen, toast, loading, confirm string) string {
	body := screen
	blocking := loading
	if confirm != "" {
		blocking = confirm
	}
	if blocking != "" {
		h := height
		if toast != "" {
			h -= lipgloss.Height(toast)
		}
		if width > 0 && h > 0 {
			body = lipgloss.Place(width, h, lipgloss.Center, lipgloss.Center, blocking)
		} else {
			body = blocking
		}
	}
	if toast == "" {
		return body
	}
	if width > 0 {
		toast = lipgloss.PlaceHorizontal(width, lipgloss.Right, toast)
	}
	return strings.Join([]string{toast, body}, "\n")
}

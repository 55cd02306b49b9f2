package ui

// Screen is a view together with the mode it was shown in.
type Screen struct {
	Mode AppMode
	View View
}

// ViewStack holds the screens behind the current one for back navigation.
type ViewStack struct {
	Stack []Screen
}

// Push adds a screen to the top of the stack.
func (s *ViewStack) Push(sc Screen) {
	s.Stack = append(s.Stack, sc)
}

// Pop removes and returns the top screen.
func (s *ViewStack) Pop() (Screen, bool) {
	if len(s.Stack) == 0 {
		return Screen{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// Len returns the number of screens in the stack.
func (s *ViewStack) Len() int {
	return len(s.Stack)
}

// Clear drops all history, as a full page load does.
func (s *ViewStack) Clear() {
	s.Stack = nil
}

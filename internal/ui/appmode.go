package ui

// AppMode is the screen currently shown. Entering a mode is a screen load.
type AppMode int

const (
	ModeListing AppMode = iota
	ModeDetail
	ModeCheckout
)

func (m AppMode) String() string {
	switch m {
	case ModeListing:
		return "Listing"
	case ModeDetail:
		return "Detail"
	case ModeCheckout:
		return "Checkout"
	default:
		return "Unknown"
	}
}

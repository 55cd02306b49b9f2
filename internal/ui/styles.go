package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/notify"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, highlights
	ColorHighlight = "205" // Magenta - for selected items, borders
	ColorDanger    = "196" // Red - for errors
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
	ColorWarning   = "208" // Orange - for warnings
	ColorSuccess   = "42"  // Green - for success toasts
	ColorPrice     = "220" // Yellow - for prices
)

// Styles contains shared style definitions used across views and modals.
var Styles = struct {
	Title        lipgloss.Style // Bold accent color - for screen titles
	TitleWarning lipgloss.Style // Bold warning color - for confirm titles

	BoxWarning lipgloss.Style // Confirm box
	BoxCompact lipgloss.Style // Compact box with less padding

	Selected lipgloss.Style // Highlighted/selected items
	Muted    lipgloss.Style
	Normal   lipgloss.Style
	Hint     lipgloss.Style // Help/hint text
	Price    lipgloss.Style
	Tab      lipgloss.Style // Inactive category tab
	TabOn    lipgloss.Style // Active category tab
	Empty    lipgloss.Style // Empty state text (muted, italic)
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorWarning)),
	BoxWarning: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorWarning)).
		Padding(1, 2),
	BoxCompact: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Price: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrice)).
		Bold(true),
	Tab: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	TabOn: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true).
		Underline(true).
		Padding(0, 1),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
}

// OverlayStyles styles the toast, loading and confirm layers for a theme.
type OverlayStyles struct {
	Toast   map[notify.Kind]lipgloss.Style
	Loading lipgloss.Style
	Confirm lipgloss.Style
}

// ToastStyle returns the style for kind, falling back to success.
func (o OverlayStyles) ToastStyle(kind notify.Kind) lipgloss.Style {
	if s, ok := o.Toast[kind]; ok {
		return s
	}
	return o.Toast[notify.KindSuccess]
}

// OverlayStylesFor returns the overlay styles of theme. The minimal theme
// drops borders and renders toasts as colored text.
func OverlayStylesFor(theme notify.Theme) OverlayStyles {
	kindColor := map[notify.Kind]string{
		notify.KindSuccess: ColorSuccess,
		notify.KindError:   ColorDanger,
		notify.KindWarning: ColorWarning,
	}
	toast := make(map[notify.Kind]lipgloss.Style, len(kindColor))

	if theme == notify.ThemeMinimal {
		for k, c := range kindColor {
			toast[k] = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(true)
		}
		return OverlayStyles{
			Toast:   toast,
			Loading: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent)),
			Confirm: lipgloss.NewStyle().Padding(0, 1),
		}
	}

	for k, c := range kindColor {
		toast[k] = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c)).
			Foreground(lipgloss.Color(c)).
			Padding(0, 1)
	}
	return OverlayStyles{
		Toast:   toast,
		Loading: Styles.BoxCompact,
		Confirm: Styles.BoxWarning,
	}
}

// NewCompactListDelegate returns a delegate with zero spacing and shared styles.
func NewCompactListDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	d.Styles.SelectedTitle = Styles.Selected
	d.Styles.SelectedDesc = Styles.Selected.Bold(false)
	d.Styles.NormalTitle = Styles.Normal
	d.Styles.NormalDesc = Styles.Muted
	return d
}

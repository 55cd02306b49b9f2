package ui

import (
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CheckoutView is shown after buy-now redirects to the payment flow.
type CheckoutView struct {
	Location string
	// Link is Location resolved against the store's base URL, ready to open
	// in a browser.
	Link    string
	Product string
}

// Ensure CheckoutView implements View.
var _ View = (*CheckoutView)(nil)

// NewCheckoutView creates the checkout screen for the redirect location.
// baseURL may be empty, in which case the location is shown as is.
func NewCheckoutView(baseURL, location, product string) *CheckoutView {
	return &CheckoutView{
		Location: location,
		Link:     absoluteLink(baseURL, location),
		Product:  product,
	}
}

// absoluteLink resolves loc against base. Unparseable input yields loc.
func absoluteLink(base, loc string) string {
	if base == "" {
		return loc
	}
	b, err := url.Parse(base)
	if err != nil {
		return loc
	}
	ref, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	return b.ResolveReference(ref).String()
}

// Init implements View.
func (v *CheckoutView) Init() tea.Cmd { return nil }

// Update implements View. Keys reach it through the registry.
func (v *CheckoutView) Update(tea.Msg) (View, tea.Cmd) {
	return v, nil
}

// View implements View.
func (v *CheckoutView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Checkout") + "\n\n")
	if v.Product != "" {
		b.WriteString(Styles.Normal.Render(v.Product) + "\n")
	}
	b.WriteString(Styles.Muted.Render("Continue at: ") + Styles.Selected.Render(v.Link) + "\n")
	return b.String()
}

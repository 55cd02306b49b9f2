package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/storefront"
	"storefront/internal/ui/textutil"
)

// DetailView shows one product with its gallery and quantity stepper.
type DetailView struct {
	detail   *storefront.Detail
	currency string
	width    int
}

// Ensure DetailView implements View.
var _ View = (*DetailView)(nil)

// NewDetailView creates the detail screen for d.
func NewDetailView(d *storefront.Detail, currency string) *DetailView {
	return &DetailView{detail: d, currency: currency}
}

// Detail returns the controller behind the screen.
func (v *DetailView) Detail() *storefront.Detail { return v.detail }

// Init implements View.
func (v *DetailView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (v *DetailView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
	case ImageStepMsg:
		switch {
		case msg.Delta > 0:
			v.detail.NextImage()
		case msg.Delta < 0:
			v.detail.PrevImage()
		}
	case ImageJumpMsg:
		v.detail.SelectImage(msg.Index)
	case QuantityStepMsg:
		switch {
		case msg.Delta > 0:
			v.detail.IncQuantity()
		case msg.Delta < 0:
			v.detail.DecQuantity()
		}
	case NextVariantMsg:
		v.detail.NextVariant()
	}
	return v, nil
}

// View implements View.
func (v *DetailView) View() string {
	p := v.detail.Product()
	nameWidth := 60
	if v.width > 4 && v.width-4 < nameWidth {
		nameWidth = v.width - 4
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render(textutil.Truncate(p.Name, nameWidth)) + "\n")
	if brand := p.BrandName(); brand != "" {
		b.WriteString(Styles.Muted.Render(brand) + "\n")
	}
	b.WriteString(Styles.Price.Render(storefront.FormatPrice(p.Price, v.currency)) + "\n\n")

	img, idx, total := v.detail.Image()
	if total == 0 {
		b.WriteString(Styles.Empty.Render("No images") + "\n")
	} else {
		dots := make([]string, total)
		for i := range dots {
			if i == idx {
				dots[i] = Styles.Selected.Render("●")
			} else {
				dots[i] = Styles.Muted.Render("○")
			}
		}
		b.WriteString(fmt.Sprintf("Image %d/%d  %s\n", idx+1, total, strings.Join(dots, " ")))
		b.WriteString(Styles.Muted.Render(textutil.Truncate(img, nameWidth)) + "\n")
	}

	if vc, ok := v.detail.Variant(); ok {
		name := vc.Name
		if name == "" {
			name = vc.ID
		}
		b.WriteString(fmt.Sprintf("\nVariant: %s %s\n", Styles.Selected.Render(name),
			Styles.Muted.Render(fmt.Sprintf("(%d options)", len(p.Variants)))))
	}

	b.WriteString("\nQuantity: " + Styles.Selected.Render(fmt.Sprintf("[- %d +]", v.detail.Quantity())))
	if p.Stock > 0 {
		b.WriteString(Styles.Muted.Render(fmt.Sprintf("  (%d in stock)", p.Stock)))
	}
	b.WriteString("\n")
	return b.String()
}

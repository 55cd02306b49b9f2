package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/storefront"
	"storefront/internal/ui/textutil"
)

// productItem implements list.Item for api.Product.
type productItem struct {
	product  api.Product
	currency string
}

func (p productItem) FilterValue() string { return p.product.Name }

func (p productItem) Title() string {
	return textutil.Truncate(p.product.Name, 48)
}

func (p productItem) Description() string {
	price := storefront.FormatPrice(p.product.Price, p.currency)
	if brand := p.product.BrandName(); brand != "" {
		return brand + " · " + price
	}
	return price
}

// ListingView shows a category switcher and the products of the selected
// category.
type ListingView struct {
	listing    *storefront.Listing
	categories []config.Category
	active     int
	currency   string
	list       list.Model
}

// Ensure ListingView implements View.
var _ View = (*ListingView)(nil)

// NewListingView creates the listing screen. Products arrive through
// CategoryLoadedMsg.
func NewListingView(l *storefront.Listing, categories []config.Category, currency string) *ListingView {
	lm := list.New(nil, NewCompactListDelegate(), 0, 0)
	lm.SetShowTitle(false)
	lm.SetShowStatusBar(false)
	lm.SetFilteringEnabled(false)
	lm.SetShowHelp(false)
	lm.DisableQuitKeybindings()

	v := &ListingView{
		listing:    l,
		categories: categories,
		currency:   currency,
		list:       lm,
	}
	v.active = v.indexOf(l.Category())
	v.refresh()
	return v
}

// Init implements View. The first category is loaded on the first visit.
func (v *ListingView) Init() tea.Cmd {
	if v.listing.Category() != "" || len(v.categories) == 0 {
		return nil
	}
	return msgCmd(SelectCategoryMsg{ID: v.categories[v.active].ID})
}

// ActiveCategory returns the id of the highlighted category tab.
func (v *ListingView) ActiveCategory() string {
	if len(v.categories) == 0 {
		return ""
	}
	return v.categories[v.active].ID
}

// Items returns the products currently listed, in display order.
func (v *ListingView) Items() []api.Product {
	items := v.list.Items()
	out := make([]api.Product, 0, len(items))
	for _, it := range items {
		if p, ok := it.(productItem); ok {
			out = append(out, p.product)
		}
	}
	return out
}

// Update implements View.
func (v *ListingView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.list.SetSize(msg.Width, msg.Height-7) // Reserve space for header, tabs and hint bar
		return v, nil
	case CategoryLoadedMsg:
		if msg.Err != nil {
			// Previous products stay; move the tab back to them.
			v.active = v.indexOf(v.listing.Category())
		}
		v.refresh()
		return v, nil
	case CycleSortMsg:
		v.listing.SetSort(v.listing.Sort().Next())
		v.refresh()
		return v, nil
	case CategoryStepMsg:
		return v, v.switchCategory(v.active + msg.Delta)
	case CategoryJumpMsg:
		if msg.Index < 0 || msg.Index >= len(v.categories) {
			return v, nil
		}
		return v, v.switchCategory(msg.Index)
	case OpenSelectedMsg:
		if it, ok := v.list.SelectedItem().(productItem); ok {
			return v, msgCmd(SelectProductMsg{Product: it.product})
		}
		return v, nil
	}

	// Remaining keys move the list cursor.
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ListingView) switchCategory(idx int) tea.Cmd {
	n := len(v.categories)
	if n == 0 {
		return nil
	}
	idx = (idx%n + n) % n
	v.active = idx
	return msgCmd(SelectCategoryMsg{ID: v.categories[idx].ID})
}

func (v *ListingView) indexOf(id string) int {
	for i, c := range v.categories {
		if c.ID == id {
			return i
		}
	}
	return 0
}

func (v *ListingView) refresh() {
	products := v.listing.Products()
	items := make([]list.Item, len(products))
	for i, p := range products {
		items[i] = productItem{product: p, currency: v.currency}
	}
	v.list.SetItems(items)
}

// View implements View.
func (v *ListingView) View() string {
	// Set default dimensions if not set (for tests)
	if v.list.Width() == 0 {
		v.list.SetWidth(80)
	}
	if v.list.Height() == 0 {
		v.list.SetHeight(20)
	}

	var b strings.Builder
	title := fmt.Sprintf("Products (%d)", len(v.list.Items()))
	b.WriteString(Styles.Title.Render(title))
	b.WriteString("  " + Styles.Muted.Render("sort: "+v.listing.Sort().String()) + "\n")

	if len(v.categories) > 0 {
		tabs := make([]string, len(v.categories))
		for i, c := range v.categories {
			name := c.Name
			if name == "" {
				name = c.ID
			}
			if i == v.active {
				tabs[i] = Styles.TabOn.Render(name)
			} else {
				tabs[i] = Styles.Tab.Render(name)
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n\n")
	} else {
		b.WriteString(Styles.Empty.Render("No categories configured") + "\n\n")
	}

	if len(v.list.Items()) == 0 {
		b.WriteString(Styles.Empty.Render("No products"))
	} else {
		b.WriteString(v.list.View())
	}
	return b.String()
}

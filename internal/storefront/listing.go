// Package storefront holds the page controllers for the product listing and
// product detail screens. Controllers talk to the backend through small
// interfaces and report outcomes through a notify.Notifier.
package storefront

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/logging"
	"storefront/internal/notify"
)

// SortOrder is the price ordering applied to a listing.
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts "asc", "desc", "" and "none". Anything else is none.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return SortAsc
	case "desc":
		return SortDesc
	default:
		return SortNone
	}
}

// String returns a display label.
func (o SortOrder) String() string {
	switch o {
	case SortAsc:
		return "price ↑"
	case SortDesc:
		return "price ↓"
	default:
		return "relevance"
	}
}

// Next cycles none → asc → desc → none.
func (o SortOrder) Next() SortOrder {
	switch o {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	default:
		return SortNone
	}
}

// SortProducts returns a sorted copy. Equal prices keep their API order.
func SortProducts(products []api.Product, order SortOrder) []api.Product {
	out := slices.Clone(products)
	if out == nil {
		out = []api.Product{}
	}
	switch order {
	case SortAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// Catalog fetches products by category.
type Catalog interface {
	ProductsByCategory(ctx context.Context, categoryID string) ([]api.Product, error)
}

// Messages shown by the listing controller.
const (
	MsgLoadingProducts  = "Loading products..."
	MsgProductsFailed   = "Could not load products. Please try again."
	MsgConnectionFailed = "Connection error. Please check your network."
)

// Listing is the product listing controller.
type Listing struct {
	catalog  Catalog
	notifier notify.Notifier
	log      zerolog.Logger

	mu       sync.Mutex
	category string
	order    SortOrder
	apiOrder []api.Product
	rendered []api.Product
}

// NewListing creates a listing controller with no products loaded.
func NewListing(catalog Catalog, notifier notify.Notifier) *Listing {
	return &Listing{
		catalog:  catalog,
		notifier: notifier,
		log:      logging.Component("listing"),
		rendered: []api.Product{},
	}
}

// SelectCategory loads a category. On failure the previous products stay
// and an error toast is shown. The loading overlay is always hidden
// afterwards. An empty id is ignored.
func (l *Listing) SelectCategory(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}

	l.notifier.ShowBlockingOverlay(MsgLoadingProducts)
	defer l.notifier.HideBlockingOverlay()

	products, err := l.catalog.ProductsByCategory(ctx, id)
	if err != nil {
		l.reportError(id, err)
		return err
	}

	l.mu.Lock()
	l.category = id
	l.apiOrder = products
	l.rendered = SortProducts(products, l.order)
	l.mu.Unlock()

	l.log.Debug().Str("category", id).Int("count", len(products)).Msg("category loaded")
	return nil
}

func (l *Listing) reportError(id string, err error) {
	if be, ok := api.AsBusiness(err); ok {
		l.log.Warn().Str("category", id).Int("code", be.Code).Msg(be.Message)
		msg := be.Message
		if msg == "" {
			msg = MsgProductsFailed
		}
		l.notifier.Notify(msg, notify.KindError)
		return
	}
	l.log.Error().Err(err).Str("category", id).Msg("fetch category")
	if errors.Is(err, api.ErrTransport) {
		l.notifier.Notify(MsgConnectionFailed, notify.KindError)
		return
	}
	l.notifier.Notify(MsgProductsFailed, notify.KindError)
}

// SetSort re-sorts the last fetched products from their API order.
func (l *Listing) SetSort(order SortOrder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = order
	l.rendered = SortProducts(l.apiOrder, order)
}

// Sort returns the active sort order.
func (l *Listing) Sort() SortOrder {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order
}

// Category returns the last successfully loaded category id.
func (l *Listing) Category() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.category
}

// Products returns the products in rendered order.
func (l *Listing) Products() []api.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.rendered)
}

package storefront

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/logging"
	"storefront/internal/notify"
)

// Session ends the backend session.
type Session interface {
	Logout(ctx context.Context) (string, error)
}

// Cart is the subset of the backend used by the detail screen.
type Cart interface {
	Session
	AddToCart(ctx context.Context, req api.AddToCartRequest) (api.CartResult, error)
	BuyNow(ctx context.Context, productID string, quantity int) (string, error)
}

// Messages shown by the detail controller.
const (
	MsgAddingToCart   = "Adding to cart..."
	MsgAddedToCart    = "Added to cart"
	MsgLoginRequired  = "Please log in to continue."
	MsgAddFailed      = "Could not add the product to your cart."
	MsgGenericFailure = "Something went wrong. Please try again."
	MsgRedirecting    = "Redirecting to checkout..."
	MsgCheckoutReady  = "Checkout started"
	MsgConfirmLogout  = "Log out?"
	MsgLoggingOut     = "Logging out..."
	MsgLoggedOut      = "You have been logged out"
	MsgLogoutFailed   = "Could not log out. Please try again."
)

// Detail is the product detail controller.
type Detail struct {
	cart     Cart
	notifier notify.Notifier
	log      zerolog.Logger

	mu      sync.Mutex
	product api.Product
	variant int // index into product.Variants, -1 when it has none
	gallery *Gallery
	stepper *Stepper
}

// NewDetail creates the controller for product. The stepper is bounded by
// the product's stock when it is known. A product with variant combinations
// starts on the first one.
func NewDetail(product api.Product, cart Cart, notifier notify.Notifier) *Detail {
	variant := -1
	if len(product.Variants) > 0 {
		variant = 0
	}
	return &Detail{
		cart:     cart,
		notifier: notifier,
		log:      logging.Component("detail").With().Str("product", product.ID).Logger(),
		product:  product,
		variant:  variant,
		gallery:  NewGallery(product.Images),
		stepper:  NewStepper(product.Stock),
	}
}

// Product returns the product shown.
func (d *Detail) Product() api.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.product
}

// Variant returns the selected variant combination, if the product has any.
func (d *Detail) Variant() (api.VariantCombination, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.variant < 0 {
		return api.VariantCombination{}, false
	}
	return d.product.Variants[d.variant], true
}

// NextVariant selects the next variant combination, wrapping around.
func (d *Detail) NextVariant() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := len(d.product.Variants); n > 0 {
		d.variant = (d.variant + 1) % n
	}
}

// Image returns the selected image and its position.
func (d *Detail) Image() (string, int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gallery.Current(), d.gallery.Index(), d.gallery.Len()
}

// SelectImage selects image i; out-of-range indexes are ignored.
func (d *Detail) SelectImage(i int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gallery.Select(i)
}

func (d *Detail) NextImage() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gallery.Next()
}

func (d *Detail) PrevImage() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gallery.Prev()
}

// Quantity returns the stepper value.
func (d *Detail) Quantity() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stepper.Value()
}

func (d *Detail) IncQuantity() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stepper.Inc()
}

func (d *Detail) DecQuantity() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stepper.Dec()
}

// AddToCart posts the current product and quantity and reports the outcome
// as a toast. A missing product id returns api.ErrMissingInput without
// showing anything.
func (d *Detail) AddToCart(ctx context.Context) error {
	d.mu.Lock()
	req := api.AddToCartRequest{
		ProductID: strings.TrimSpace(d.product.ID),
		Quantity:  d.stepper.Value(),
	}
	if d.variant >= 0 {
		req.VariantCombinationID = strings.TrimSpace(d.product.Variants[d.variant].ID)
	}
	d.mu.Unlock()

	if req.ProductID == "" {
		d.log.Debug().Msg("add to cart without product id")
		return api.ErrMissingInput
	}

	d.notifier.ShowBlockingOverlay(MsgAddingToCart)
	res, err := d.cart.AddToCart(ctx, req)
	d.notifier.HideBlockingOverlay()

	if err != nil {
		d.reportFailure("add to cart", err, MsgAddFailed)
		return err
	}

	msg := res.Message
	if strings.TrimSpace(msg) == "" {
		msg = MsgAddedToCart
	}
	d.log.Info().Int("quantity", req.Quantity).Msg("added to cart")
	d.notifier.Notify(msg, notify.KindSuccess)
	return nil
}

// BuyNow submits the buy-now form. On success it persists a toast for the
// next screen and returns the location to navigate to.
func (d *Detail) BuyNow(ctx context.Context) (string, error) {
	d.mu.Lock()
	id := strings.TrimSpace(d.product.ID)
	qty := d.stepper.Value()
	d.mu.Unlock()

	if id == "" {
		return "", api.ErrMissingInput
	}

	d.notifier.ShowBlockingOverlay(MsgRedirecting)
	loc, err := d.cart.BuyNow(ctx, id, qty)
	d.notifier.HideBlockingOverlay()
	if err != nil {
		d.reportFailure("buy now", err, MsgGenericFailure)
		return "", err
	}

	if err := d.notifier.PersistToast(MsgCheckoutReady, notify.KindSuccess); err != nil {
		d.log.Error().Err(err).Msg("persist checkout toast")
	}
	return loc, nil
}

// Logout asks for confirmation and ends the session. It returns "" with a
// nil error when the user declines.
func (d *Detail) Logout(ctx context.Context) (string, error) {
	return Logout(ctx, d.cart, d.notifier, d.log)
}

// Logout confirms, posts the logout and persists a toast for the next
// screen. Declining returns "" and a nil error.
func Logout(ctx context.Context, session Session, notifier notify.Notifier, log zerolog.Logger) (string, error) {
	ok, err := notifier.Confirm(ctx, MsgConfirmLogout)
	if err != nil {
		if errors.Is(err, notify.ErrConfirmPending) {
			log.Debug().Msg("logout ignored, confirm already open")
		}
		return "", err
	}
	if !ok {
		return "", nil
	}

	notifier.ShowBlockingOverlay(MsgLoggingOut)
	loc, err := session.Logout(ctx)
	notifier.HideBlockingOverlay()
	if err != nil {
		log.Error().Err(err).Msg("logout")
		notifier.Notify(MsgLogoutFailed, notify.KindError)
		return "", err
	}

	if err := notifier.PersistToast(MsgLoggedOut, notify.KindSuccess); err != nil {
		log.Error().Err(err).Msg("persist logout toast")
	}
	if loc == "" {
		loc = "/"
	}
	return loc, nil
}

// reportFailure maps err to a toast: auth rejections warn, other rejections
// and transport failures are errors.
func (d *Detail) reportFailure(op string, err error, fallback string) {
	if be, ok := api.AsBusiness(err); ok {
		msg := be.Message
		if be.IsAuth() {
			if msg == "" {
				msg = MsgLoginRequired
			}
			d.log.Warn().Int("code", be.Code).Str("op", op).Msg(msg)
			d.notifier.Notify(msg, notify.KindWarning)
			return
		}
		if msg == "" {
			msg = fallback
		}
		d.log.Warn().Int("code", be.Code).Str("op", op).Msg(msg)
		d.notifier.Notify(msg, notify.KindError)
		return
	}
	d.log.Error().Err(err).Str("op", op).Msg("request failed")
	d.notifier.Notify(MsgGenericFailure, notify.KindError)
}

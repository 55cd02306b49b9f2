package storefront

import (
	"context"
	"sync"

	"storefront/internal/api"
	"storefront/internal/notify"
)

type toastCall struct {
	Message string
	Kind    notify.Kind
}

// recordingNotifier captures every notifier call.
type recordingNotifier struct {
	mu        sync.Mutex
	toasts    []toastCall
	persisted []toastCall
	events    []string
	loading   bool

	confirmAnswer bool
	confirmErr    error
	confirms      []string
}

func (n *recordingNotifier) Notify(message string, kind notify.Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toastCall{message, kind})
	n.events = append(n.events, "toast")
}

func (n *recordingNotifier) ShowBlockingOverlay(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loading = true
	n.events = append(n.events, "show:"+message)
}

func (n *recordingNotifier) HideBlockingOverlay() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loading = false
	n.events = append(n.events, "hide")
}

func (n *recordingNotifier) Confirm(_ context.Context, message string) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirms = append(n.confirms, message)
	return n.confirmAnswer, n.confirmErr
}

func (n *recordingNotifier) PersistToast(message string, kind notify.Kind) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.persisted = append(n.persisted, toastCall{message, kind})
	return nil
}

func (n *recordingNotifier) lastToast() (toastCall, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.toasts) == 0 {
		return toastCall{}, false
	}
	return n.toasts[len(n.toasts)-1], true
}

type fakeCatalog struct {
	products map[string][]api.Product
	err      error
	calls    []string
}

func (c *fakeCatalog) ProductsByCategory(_ context.Context, id string) ([]api.Product, error) {
	c.calls = append(c.calls, id)
	if c.err != nil {
		return nil, c.err
	}
	return c.products[id], nil
}

type fakeCart struct {
	addResult api.CartResult
	addErr    error
	added     []api.AddToCartRequest

	buyLoc string
	buyErr error
	bought int

	logoutLoc string
	logoutErr error
	logouts   int
}

func (c *fakeCart) AddToCart(_ context.Context, req api.AddToCartRequest) (api.CartResult, error) {
	c.added = append(c.added, req)
	return c.addResult, c.addErr
}

func (c *fakeCart) BuyNow(_ context.Context, _ string, qty int) (string, error) {
	c.bought = qty
	return c.buyLoc, c.buyErr
}

func (c *fakeCart) Logout(context.Context) (string, error) {
	c.logouts++
	return c.logoutLoc, c.logoutErr
}

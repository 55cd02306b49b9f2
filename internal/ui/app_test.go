package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/notify"
	"storefront/internal/session"
	"storefront/internal/storefront"
)

type fakeBackend struct {
	mu        sync.Mutex
	products  map[string][]api.Product
	addErr    error
	added     []api.AddToCartRequest
	buyLoc    string
	logouts   int
	catErr    error
	catCalled []string
}

func (b *fakeBackend) ProductsByCategory(_ context.Context, id string) ([]api.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catCalled = append(b.catCalled, id)
	if b.catErr != nil {
		return nil, b.catErr
	}
	return b.products[id], nil
}

func (b *fakeBackend) AddToCart(_ context.Context, req api.AddToCartRequest) (api.CartResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.added = append(b.added, req)
	if b.addErr != nil {
		return api.CartResult{}, b.addErr
	}
	return api.CartResult{Message: "Added!"}, nil
}

func (b *fakeBackend) BuyNow(context.Context, string, int) (string, error) {
	return b.buyLoc, nil
}

func (b *fakeBackend) Logout(context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logouts++
	return "/", nil
}

type appFixture struct {
	app      *AppModel
	adapter  *appModelAdapter
	backend  *fakeBackend
	notifier *notify.Controller
	store    session.Store
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	store := session.NewMemoryStore()
	n := notify.NewController(notify.Options{Store: store, Delay: time.Hour})
	backend := &fakeBackend{
		buyLoc: "/payment/checkout",
		products: map[string][]api.Product{
			"shoes": {
				{ID: "a", Name: "Runner", Price: 100, Images: []string{"a1.jpg", "a2.jpg", "a3.jpg"}, Variants: []api.VariantCombination{
					{ID: "v-s", Name: "Small"},
					{ID: "v-m", Name: "Medium"},
				}},
				{ID: "b", Name: "Walker", Price: 50},
			},
			"hats":  {{ID: "h", Name: "Cap", Price: 20}},
		},
	}
	app := NewAppModel(Options{
		Notifier: n,
		Backend:  backend,
		Categories: []config.Category{
			{ID: "shoes", Name: "Shoes"},
			{ID: "hats", Name: "Hats"},
		},
		Currency: "USD",
		BaseURL:  "https://shop.example.com",
	})
	return &appFixture{
		app:      app,
		adapter:  &appModelAdapter{AppModel: app},
		backend:  backend,
		notifier: n,
		store:    store,
	}
}

// drain runs cmd and feeds the resulting messages back into Update until no
// commands remain. Spinner ticks and quit are dropped.
func (f *appFixture) drain(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := f.adapter.Update(msg)
			queue = append(queue, next)
		}
	}
}

func (f *appFixture) press(keys ...string) {
	for _, k := range keys {
		_, cmd := f.adapter.Update(keyMsg(k))
		f.drain(cmd)
	}
}

func (f *appFixture) start(t *testing.T) {
	t.Helper()
	f.drain(f.adapter.Init())
	require.Equal(t, []string{"a", "b"}, productIDs(f.app.Listing.Items()))
}

func productIDs(products []api.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestApp_InitLoadsFirstCategory(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)

	assert.Equal(t, ModeListing, f.app.Mode)
	assert.Equal(t, []string{"shoes"}, f.backend.catCalled)
	assert.False(t, f.notifier.State().Loading.Visible)
}

func TestApp_InitShowsPersistedToast(t *testing.T) {
	f := newAppFixture(t)
	require.NoError(t, f.notifier.PersistToast("Welcome back", notify.KindSuccess))

	f.drain(f.adapter.Init())

	st := f.notifier.State().Toast
	assert.True(t, st.Visible)
	assert.Equal(t, "Welcome back", st.Message)
	assert.Contains(t, f.adapter.View(), "Welcome back")
}

func TestApp_SortKeyCycles(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)

	f.press("s")
	assert.Equal(t, []string{"b", "a"}, productIDs(f.app.Listing.Items()), "asc")
	f.press("s")
	assert.Equal(t, []string{"a", "b"}, productIDs(f.app.Listing.Items()), "desc")
	f.press("s")
	assert.Equal(t, []string{"a", "b"}, productIDs(f.app.Listing.Items()), "api order")
}

func TestApp_TabSwitchesCategory(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)

	f.press("tab")
	assert.Equal(t, "hats", f.app.Listing.ActiveCategory())
	assert.Equal(t, []string{"h"}, productIDs(f.app.Listing.Items()))
}

func TestApp_CategoryFailureKeepsProductsAndTab(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)
	f.backend.catErr = &api.BusinessError{Code: 500, Message: "Server error"}

	f.press("tab")

	assert.Equal(t, "shoes", f.app.Listing.ActiveCategory())
	assert.Equal(t, []string{"a", "b"}, productIDs(f.app.Listing.Items()))
	st := f.notifier.State()
	assert.Equal(t, notify.KindError, st.Toast.Kind)
	assert.False(t, st.Loading.Visible)
}

func TestApp_OpenProductAndBack(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)

	f.press("enter")
	require.Equal(t, ModeDetail, f.app.Mode)
	require.NotNil(t, f.app.Detail)
	assert.Equal(t, "a", f.app.Detail.Detail().Product().ID)
	assert.Equal(t, 1, f.app.History.Len())

	f.press("esc")
	assert.Equal(t, ModeListing, f.app.Mode)
	assert.Equal(t, 0, f.app.History.Len())
}

func TestApp_CategoryDigitJumps(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)

	f.press("2")
	assert.Equal(t, "hats", f.app.Listing.ActiveCategory())
	f.press("9")
	assert.Equal(t, "hats", f.app.Listing.ActiveCategory(), "no ninth category")
	f.press("1")
	assert.Equal(t, "shoes", f.app.Listing.ActiveCategory())
}

func TestApp_DetailKeys(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)
	f.press("enter")
	d := f.app.Detail.Detail()

	f.press("3")
	_, idx, _ := d.Image()
	assert.Equal(t, 2, idx, "digit jumps to the image")
	f.press("l")
	_, idx, _ = d.Image()
	assert.Equal(t, 0, idx, "next wraps")
	f.press("h")
	_, idx, _ = d.Image()
	assert.Equal(t, 2, idx, "prev wraps")

	f.press("k", "+", "j")
	assert.Equal(t, 2, d.Quantity())

	f.press("v")
	v, ok := d.Variant()
	require.True(t, ok)
	assert.Equal(t, "Medium", v.Name)
	assert.Contains(t, f.adapter.View(), "Medium")

	f.press("a")
	require.Len(t, f.backend.added, 1)
	assert.Equal(t, api.AddToCartRequest{ProductID: "a", Quantity: 2, VariantCombinationID: "v-m"}, f.backend.added[0])
}

func TestApp_ScreenHelpFollowsMode(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)
	assert.Contains(t, f.adapter.View(), "sort")

	f.press("enter")
	view := f.adapter.View()
	assert.Contains(t, view, "add to cart")
	assert.NotContains(t, view, "sort")
}

func TestApp_AddToCart(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind notify.Kind
		wantMsg  string
	}{
		{name: "success", wantKind: notify.KindSuccess, wantMsg: "Added!"},
		{name: "unauthorized", err: &api.BusinessError{Code: 401, Message: "Login first"}, wantKind: notify.KindWarning, wantMsg: "Login first"},
		{name: "server error", err: &api.BusinessError{Code: 500, Message: "Boom"}, wantKind: notify.KindError, wantMsg: "Boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAppFixture(t)
			f.start(t)
			f.backend.addErr = tt.err

			f.press("enter", "+", "+", "a")

			require.Len(t, f.backend.added, 1)
			assert.Equal(t, 3, f.backend.added[0].Quantity)
			st := f.notifier.State()
			assert.Equal(t, tt.wantKind, st.Toast.Kind)
			assert.Equal(t, tt.wantMsg, st.Toast.Message)
			assert.False(t, st.Loading.Visible)
		})
	}
}

func TestApp_BuyNowNavigatesAndShowsPersistedToast(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)

	f.press("enter", "b")

	require.Equal(t, ModeCheckout, f.app.Mode)
	assert.Equal(t, "/payment/checkout", f.app.Checkout.Location)
	assert.Equal(t, "https://shop.example.com/payment/checkout", f.app.Checkout.Link)
	assert.Contains(t, f.adapter.View(), "https://shop.example.com/payment/checkout")
	assert.Equal(t, 2, f.app.History.Len())
	st := f.notifier.State().Toast
	assert.True(t, st.Visible)
	assert.Equal(t, storefront.MsgCheckoutReady, st.Message)

	_, ok, err := f.store.Get(notify.PersistedToastKey)
	require.NoError(t, err)
	assert.False(t, ok, "persisted toast is consumed once")

	f.press("esc")
	assert.Equal(t, ModeDetail, f.app.Mode)
}

func TestApp_LoadingBlocksInput(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)

	f.notifier.ShowLoading("")
	f.drain(func() tea.Msg { return OverlayChangedMsg{} })
	f.press("s", "enter")

	assert.Equal(t, ModeListing, f.app.Mode)
	assert.Equal(t, storefront.SortNone, f.app.listing.Sort())
	assert.Contains(t, f.adapter.View(), notify.DefaultLoadingMessage)

	f.notifier.HideLoading()
	f.drain(func() tea.Msg { return OverlayChangedMsg{} })
	f.press("s")
	assert.Equal(t, storefront.SortAsc, f.app.listing.Sort())
}

// runLogout starts the logout command in the background the way Bubble Tea
// does and returns its result channel.
func (f *appFixture) runLogout(t *testing.T) <-chan tea.Msg {
	t.Helper()
	_, cmd := f.adapter.Update(LogoutMsg{})
	require.NotNil(t, cmd)
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	require.Eventually(t, f.notifier.ConfirmPending, time.Second, time.Millisecond)
	f.drain(func() tea.Msg { return OverlayChangedMsg{} })
	require.Equal(t, 1, f.app.Overlays.Len(), "confirm modal should be open")
	return out
}

func TestApp_LogoutConfirmed(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)
	f.press("enter")

	done := f.runLogout(t)
	assert.Contains(t, f.adapter.View(), storefront.MsgConfirmLogout)

	f.press("y")
	assert.Equal(t, 0, f.app.Overlays.Len())

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(time.Second):
		t.Fatal("logout did not finish")
	}
	f.drain(func() tea.Msg { return msg })

	assert.Equal(t, 1, f.backend.logouts)
	assert.Equal(t, ModeListing, f.app.Mode)
	assert.Equal(t, 0, f.app.History.Len())
	st := f.notifier.State().Toast
	assert.True(t, st.Visible)
	assert.Equal(t, storefront.MsgLoggedOut, st.Message)
}

func TestApp_LogoutDeclined(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)
	f.press("enter")

	done := f.runLogout(t)

	// Screen keys do not reach the detail view while the modal is open.
	f.press("a")
	assert.Empty(t, f.backend.added)

	f.press("esc")
	msg := <-done
	f.drain(func() tea.Msg { return msg })

	assert.Zero(t, f.backend.logouts)
	assert.Equal(t, ModeDetail, f.app.Mode, "declining keeps the current screen")
	assert.Equal(t, 0, f.app.Overlays.Len())
}

func TestApp_LeaderHelpShown(t *testing.T) {
	f := newAppFixture(t)
	f.start(t)

	f.press(" ")
	view := f.adapter.View()
	assert.True(t, strings.Contains(view, "Log out"), "leader help should list SPC o")
	f.press("esc")
	assert.False(t, f.app.KeyHandler.LeaderWaiting)
}

func TestComposeLayers(t *testing.T) {
	assert.Equal(t, "screen", composeLayers(0, 0, "screen", "", "", ""))
	assert.Equal(t, "toast\nscreen", composeLayers(0, 0, "screen", "toast", "", ""))
	assert.Equal(t, "loading", composeLayers(0, 0, "screen", "", "loading", ""))
	assert.Equal(t, "confirm", composeLayers(0, 0, "screen", "", "loading", "confirm"))

	out := composeLayers(20, 5, "screen", "", "box", "")
	assert.NotContains(t, out, "screen")
	assert.Contains(t, out, "box")
}

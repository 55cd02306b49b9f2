package storefront

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api"
	"storefront/internal/notify"
)

func TestGallery(t *testing.T) {
	g := NewGallery([]string{"a.jpg", "b.jpg", "c.jpg"})
	assert.Equal(t, "a.jpg", g.Current())

	g.Next()
	g.Next()
	assert.Equal(t, "c.jpg", g.Current())
	g.Next()
	assert.Equal(t, "a.jpg", g.Current(), "next wraps to first")
	g.Prev()
	assert.Equal(t, "c.jpg", g.Current(), "prev wraps to last")

	assert.False(t, g.Select(3))
	assert.False(t, g.Select(-1))
	assert.Equal(t, 2, g.Index())
	assert.True(t, g.Select(1))
	assert.Equal(t, "b.jpg", g.Current())
}

func TestGallery_Empty(t *testing.T) {
	g := NewGallery(nil)
	g.Next()
	g.Prev()
	assert.Equal(t, "", g.Current())
	assert.False(t, g.Select(0))
}

func TestStepper(t *testing.T) {
	s := NewStepper(3)
	assert.Equal(t, 1, s.Value())

	s.Dec()
	assert.Equal(t, 1, s.Value(), "never below minimum")
	s.Inc()
	s.Inc()
	s.Inc()
	assert.Equal(t, 3, s.Value(), "never above max")
	s.Set(-4)
	assert.Equal(t, 1, s.Value())
	s.Set(10)
	assert.Equal(t, 3, s.Value())
}

func TestStepper_Unbounded(t *testing.T) {
	s := NewStepper(0)
	s.Set(999)
	assert.Equal(t, 999, s.Value())
	assert.Equal(t, 0, NewStepper(-2).Max())
}

func newDetailFixture(p api.Product) (*Detail, *fakeCart, *recordingNotifier) {
	cart := &fakeCart{}
	n := &recordingNotifier{}
	return NewDetail(p, cart, n), cart, n
}

func TestDetail_AddToCart_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		result   api.CartResult
		err      error
		wantErr  bool
		wantKind notify.Kind
		wantMsg  string
	}{
		{name: "success with message", result: api.CartResult{Message: "Sepete eklendi"}, wantKind: notify.KindSuccess, wantMsg: "Sepete eklendi"},
		{name: "success default message", wantKind: notify.KindSuccess, wantMsg: MsgAddedToCart},
		{name: "unauthorized warns", err: &api.BusinessError{Code: 401, Message: "Login required"}, wantErr: true, wantKind: notify.KindWarning, wantMsg: "Login required"},
		{name: "forbidden default message", err: &api.BusinessError{Code: 403}, wantErr: true, wantKind: notify.KindWarning, wantMsg: MsgLoginRequired},
		{name: "server error", err: &api.BusinessError{Code: 500, Message: "Internal error"}, wantErr: true, wantKind: notify.KindError, wantMsg: "Internal error"},
		{name: "business default message", err: &api.BusinessError{Code: 409}, wantErr: true, wantKind: notify.KindError, wantMsg: MsgAddFailed},
		{name: "transport", err: fmt.Errorf("%w: refused", api.ErrTransport), wantErr: true, wantKind: notify.KindError, wantMsg: MsgGenericFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, cart, n := newDetailFixture(api.Product{ID: "p1", Stock: 5})
			cart.addResult = tt.result
			cart.addErr = tt.err
			d.IncQuantity()

			err := d.AddToCart(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			require.Len(t, cart.added, 1)
			assert.Equal(t, api.AddToCartRequest{ProductID: "p1", Quantity: 2}, cart.added[0])
			assert.False(t, n.loading)
			assert.Equal(t, []toastCall{{tt.wantMsg, tt.wantKind}}, n.toasts)
		})
	}
}

func TestDetail_AddToCart_MissingProductIsSilent(t *testing.T) {
	d, cart, n := newDetailFixture(api.Product{Name: "ghost"})

	err := d.AddToCart(context.Background())
	assert.ErrorIs(t, err, api.ErrMissingInput)
	assert.Empty(t, cart.added)
	assert.Empty(t, n.events)
}

func TestDetail_AddToCart_SendsSelectedVariant(t *testing.T) {
	d, cart, _ := newDetailFixture(api.Product{ID: "p1", Variants: []api.VariantCombination{
		{ID: "v-41", Name: "S / Red"},
		{ID: " v-42 ", Name: "M / Red"},
	}})

	v, ok := d.Variant()
	require.True(t, ok)
	assert.Equal(t, "S / Red", v.Name, "first combination is preselected")

	d.NextVariant()
	require.NoError(t, d.AddToCart(context.Background()))
	assert.Equal(t, "v-42", cart.added[0].VariantCombinationID)

	d.NextVariant()
	v, _ = d.Variant()
	assert.Equal(t, "v-41", v.ID, "wraps to the first combination")
}

func TestDetail_NoVariants(t *testing.T) {
	d, cart, _ := newDetailFixture(api.Product{ID: "p1"})
	d.NextVariant()

	_, ok := d.Variant()
	assert.False(t, ok)
	require.NoError(t, d.AddToCart(context.Background()))
	assert.Empty(t, cart.added[0].VariantCombinationID)
}

func TestDetail_QuantityBoundedByStock(t *testing.T) {
	d, _, _ := newDetailFixture(api.Product{ID: "p1", Stock: 2})
	for range 7 {
		d.IncQuantity()
	}
	assert.Equal(t, 2, d.Quantity())
	d.DecQuantity()
	d.DecQuantity()
	assert.Equal(t, 1, d.Quantity())
}

func TestDetail_ImageNavigation(t *testing.T) {
	d, _, _ := newDetailFixture(api.Product{ID: "p1", Images: []string{"1.png", "2.png"}})
	d.NextImage()
	img, idx, total := d.Image()
	assert.Equal(t, "2.png", img)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, total)
	d.NextImage()
	img, _, _ = d.Image()
	assert.Equal(t, "1.png", img)
	d.PrevImage()
	assert.False(t, d.SelectImage(9))
	img, _, _ = d.Image()
	assert.Equal(t, "2.png", img)
	assert.True(t, d.SelectImage(0))
	img, idx, _ = d.Image()
	assert.Equal(t, "1.png", img)
	assert.Equal(t, 0, idx)
}

func TestDetail_BuyNow(t *testing.T) {
	d, cart, n := newDetailFixture(api.Product{ID: "p1"})
	cart.buyLoc = "/payment/checkout"
	d.IncQuantity()
	d.IncQuantity()

	loc, err := d.BuyNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/payment/checkout", loc)
	assert.Equal(t, 3, cart.bought)
	assert.Equal(t, []toastCall{{MsgCheckoutReady, notify.KindSuccess}}, n.persisted)
	assert.Empty(t, n.toasts)
	assert.False(t, n.loading)
}

func TestDetail_BuyNow_Failure(t *testing.T) {
	d, cart, n := newDetailFixture(api.Product{ID: "p1"})
	cart.buyErr = &api.BusinessError{Code: 401}

	loc, err := d.BuyNow(context.Background())
	assert.Error(t, err)
	assert.Empty(t, loc)
	assert.Empty(t, n.persisted)
	assert.Equal(t, []toastCall{{MsgLoginRequired, notify.KindWarning}}, n.toasts)
}

func TestDetail_BuyNow_MissingProduct(t *testing.T) {
	d, _, n := newDetailFixture(api.Product{})
	_, err := d.BuyNow(context.Background())
	assert.ErrorIs(t, err, api.ErrMissingInput)
	assert.Empty(t, n.events)
}

func TestLogout(t *testing.T) {
	t.Run("declined does nothing", func(t *testing.T) {
		cart := &fakeCart{}
		n := &recordingNotifier{confirmAnswer: false}

		loc, err := Logout(context.Background(), cart, n, zerolog.Nop())
		require.NoError(t, err)
		assert.Empty(t, loc)
		assert.Equal(t, []string{MsgConfirmLogout}, n.confirms)
		assert.Zero(t, cart.logouts)
		assert.Empty(t, n.persisted)
	})

	t.Run("confirmed persists toast", func(t *testing.T) {
		cart := &fakeCart{}
		n := &recordingNotifier{confirmAnswer: true}

		loc, err := Logout(context.Background(), cart, n, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, "/", loc)
		assert.Equal(t, 1, cart.logouts)
		assert.Equal(t, []toastCall{{MsgLoggedOut, notify.KindSuccess}}, n.persisted)
	})

	t.Run("failure shows error", func(t *testing.T) {
		cart := &fakeCart{logoutErr: errors.New("down")}
		n := &recordingNotifier{confirmAnswer: true}

		_, err := Logout(context.Background(), cart, n, zerolog.Nop())
		assert.Error(t, err)
		assert.Equal(t, []toastCall{{MsgLogoutFailed, notify.KindError}}, n.toasts)
		assert.False(t, n.loading)
	})

	t.Run("pending confirm", func(t *testing.T) {
		cart := &fakeCart{}
		n := &recordingNotifier{confirmErr: notify.ErrConfirmPending}

		_, err := Logout(context.Background(), cart, n, zerolog.Nop())
		assert.ErrorIs(t, err, notify.ErrConfirmPending)
		assert.Zero(t, cart.logouts)
	})
}

func TestDetail_LogoutUsesCart(t *testing.T) {
	d, cart, n := newDetailFixture(api.Product{ID: "p1"})
	cart.logoutLoc = "/login"
	n.confirmAnswer = true

	loc, err := d.Logout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/login", loc)
}

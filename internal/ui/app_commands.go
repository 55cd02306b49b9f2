package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"storefront/internal/notify"
	"storefront/internal/storefront"
)

// Commands run in Bubble Tea's command goroutines, so they may block on the
// network or on a confirm prompt. Results come back as messages.

func selectCategoryCmd(ctx context.Context, l *storefront.Listing, id string) tea.Cmd {
	return func() tea.Msg {
		err := l.SelectCategory(ctx, id)
		return CategoryLoadedMsg{ID: id, Err: err}
	}
}

func addToCartCmd(ctx context.Context, d *storefront.Detail) tea.Cmd {
	return func() tea.Msg {
		return AddToCartDoneMsg{Err: d.AddToCart(ctx)}
	}
}

func buyNowCmd(ctx context.Context, d *storefront.Detail) tea.Cmd {
	return func() tea.Msg {
		loc, err := d.BuyNow(ctx)
		return BuyNowDoneMsg{Location: loc, Err: err}
	}
}

func logoutCmd(ctx context.Context, s storefront.Session, n notify.Notifier, log zerolog.Logger) tea.Cmd {
	return func() tea.Msg {
		loc, err := storefront.Logout(ctx, s, n, log)
		return LogoutDoneMsg{Location: loc, Err: err}
	}
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

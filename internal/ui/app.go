package ui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/notify"
	"storefront/internal/storefront"
)

// Backend is everything the screens need from the REST API.
type Backend interface {
	storefront.Catalog
	storefront.Cart
}

// Options configures the root model.
type Options struct {
	Notifier   *notify.Controller
	Backend    Backend
	Categories []config.Category
	Currency   string
	// BaseURL turns the checkout redirect into an absolute link.
	BaseURL string
	// Context bounds every backend call and pending confirm. Cancel it when
	// the program exits.
	Context context.Context
}

// AppModel is the root model. It switches between the listing, detail and
// checkout screens and draws the notification layers over them.
type AppModel struct {
	Mode       AppMode
	Listing    *ListingView
	Detail     *DetailView
	Checkout   *CheckoutView
	History    ViewStack
	Overlays   OverlayStack
	KeyHandler *KeyHandler

	notifier   *notify.Controller
	backend    Backend
	listing    *storefront.Listing
	categories []config.Category
	currency   string
	baseURL    string
	ctx        context.Context
	styles     OverlayStyles
	loading    *LoadingView
	width      int
	height     int
	log        zerolog.Logger
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model on the listing screen.
func NewAppModel(opts Options) *AppModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	n := opts.Notifier
	if n == nil {
		n = notify.NewController(notify.Options{})
	}
	styles := OverlayStylesFor(n.State().Theme)

	a := &AppModel{
		Mode:       ModeListing,
		KeyHandler: NewKeyHandler(newKeyMap()),
		notifier:   n,
		backend:    opts.Backend,
		categories: opts.Categories,
		currency:   opts.Currency,
		baseURL:    opts.BaseURL,
		ctx:        ctx,
		styles:     styles,
		loading:    NewLoadingView(styles.Loading),
		log:        logging.Component("ui"),
	}
	a.listing = storefront.NewListing(a.backend, n)
	a.Listing = NewListingView(a.listing, a.categories, a.currency)
	return a
}

// newKeyMap binds every key of every screen.
func newKeyMap() *KeybindRegistry {
	reg := NewKeybindRegistry()
	reg.BindWithDescForMode("ctrl+c", tea.Quit, "")
	reg.BindWithDescForMode("SPC q", tea.Quit, "Quit")
	reg.BindWithDescForMode("SPC o", msgCmd(LogoutMsg{}), "Log out")
	reg.BindWithDescForMode("SPC r", msgCmd(RefreshMsg{}), "Reload category", ModeListing)
	reg.BindWithDescForMode("SPC b", msgCmd(BackMsg{}), "Back", ModeDetail, ModeCheckout)

	listing := []AppMode{ModeListing}
	reg.Add(Binding{Keys: []string{"enter"}, Desc: "open", Modes: listing, Cmd: msgCmd(OpenSelectedMsg{})})
	reg.Add(Binding{Keys: []string{"tab", "]"}, Desc: "next category", Modes: listing, Cmd: msgCmd(CategoryStepMsg{Delta: 1})})
	reg.Add(Binding{Keys: []string{"shift+tab", "["}, Desc: "prev category", Modes: listing, Cmd: msgCmd(CategoryStepMsg{Delta: -1})})
	for i := 1; i <= 9; i++ {
		reg.Add(Binding{Keys: []string{strconv.Itoa(i)}, Help: "1-9", Desc: "category", Modes: listing, Cmd: msgCmd(CategoryJumpMsg{Index: i - 1})})
	}
	reg.Add(Binding{Keys: []string{"s"}, Desc: "sort", Modes: listing, Cmd: msgCmd(CycleSortMsg{})})

	detail := []AppMode{ModeDetail}
	reg.Add(Binding{Keys: []string{"a"}, Desc: "add to cart", Modes: detail, Cmd: msgCmd(AddToCartMsg{})})
	reg.Add(Binding{Keys: []string{"b"}, Desc: "buy now", Modes: detail, Cmd: msgCmd(BuyNowMsg{})})
	reg.Add(Binding{Keys: []string{"+", "=", "k", "up"}, Desc: "more", Modes: detail, Cmd: msgCmd(QuantityStepMsg{Delta: 1})})
	reg.Add(Binding{Keys: []string{"-", "j", "down"}, Desc: "less", Modes: detail, Cmd: msgCmd(QuantityStepMsg{Delta: -1})})
	reg.Add(Binding{Keys: []string{"l", "right"}, Desc: "next image", Modes: detail, Cmd: msgCmd(ImageStepMsg{Delta: 1})})
	reg.Add(Binding{Keys: []string{"h", "left"}, Desc: "prev image", Modes: detail, Cmd: msgCmd(ImageStepMsg{Delta: -1})})
	for i := 1; i <= 9; i++ {
		reg.Add(Binding{Keys: []string{strconv.Itoa(i)}, Help: "1-9", Desc: "image", Modes: detail, Cmd: msgCmd(ImageJumpMsg{Index: i - 1})})
	}
	reg.Add(Binding{Keys: []string{"v"}, Desc: "variant", Modes: detail, Cmd: msgCmd(NextVariantMsg{})})

	reg.Add(Binding{Keys: []string{"esc"}, Desc: "back", Modes: []AppMode{ModeDetail, ModeCheckout}, Cmd: msgCmd(BackMsg{})})
	reg.Add(Binding{Keys: []string{"enter"}, Desc: "back to product", Modes: []AppMode{ModeCheckout}, Cmd: msgCmd(BackMsg{})})
	return reg
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// SubscribeProgram wakes p on every controller change. Send runs on its own
// goroutine because changes are also made from inside Update, where a
// synchronous Send would block the event loop.
func SubscribeProgram(c *notify.Controller, p *tea.Program) {
	c.Subscribe(func() {
		go p.Send(OverlayChangedMsg{})
	})
}

// Init implements tea.Model. Startup is the first screen load.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(a.currentView().Init(), a.screenLoaded())
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case OverlayChangedMsg:
		return a, a.syncOverlays()
	case spinner.TickMsg:
		return a, a.loading.Update(msg)
	case SelectCategoryMsg:
		return a, selectCategoryCmd(a.ctx, a.listing, msg.ID)
	case RefreshMsg:
		if a.Mode == ModeListing {
			if id := a.Listing.ActiveCategory(); id != "" {
				return a, selectCategoryCmd(a.ctx, a.listing, id)
			}
		}
		return a, nil
	case CategoryLoadedMsg:
		_, cmd := a.Listing.Update(msg)
		return a, tea.Batch(cmd, a.syncOverlays())
	case SelectProductMsg:
		d := storefront.NewDetail(msg.Product, a.backend, a.notifier)
		return a, a.navigate(ModeDetail, NewDetailView(d, a.currency))
	case AddToCartMsg:
		if a.Mode == ModeDetail && a.Detail != nil {
			return a, addToCartCmd(a.ctx, a.Detail.Detail())
		}
		return a, nil
	case AddToCartDoneMsg:
		return a, a.syncOverlays()
	case BuyNowMsg:
		if a.Mode == ModeDetail && a.Detail != nil {
			return a, buyNowCmd(a.ctx, a.Detail.Detail())
		}
		return a, nil
	case BuyNowDoneMsg:
		if msg.Err != nil || msg.Location == "" {
			return a, a.syncOverlays()
		}
		name := ""
		if a.Detail != nil {
			name = a.Detail.Detail().Product().Name
		}
		return a, a.navigate(ModeCheckout, NewCheckoutView(a.baseURL, msg.Location, name))
	case LogoutMsg:
		return a, logoutCmd(a.ctx, a.backend, a.notifier, a.log)
	case LogoutDoneMsg:
		if msg.Err != nil || msg.Location == "" {
			return a, a.syncOverlays()
		}
		return a, a.reload()
	case BackMsg:
		return a, a.back()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// Confirm modal takes all input while open
		if a.Overlays.Len() > 0 {
			cmd, _ := a.Overlays.UpdateTop(msg)
			return a, tea.Batch(cmd, a.syncOverlays())
		}
		// Loading overlay blocks input
		if a.loading.Visible() {
			return a, nil
		}
		if a.KeyHandler != nil {
			if consumed, keyCmd := a.KeyHandler.Handle(msg, a.Mode); consumed {
				return a, keyCmd
			}
		}
	}

	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	screen := a.currentView().View()
	if a.KeyHandler != nil {
		if a.KeyHandler.LeaderWaiting {
			screen += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
		} else {
			screen += "\n\n" + RenderScreenHelp(a.KeyHandler.Registry, a.Mode, a.width)
		}
	}

	toast := renderToast(a.notifier.State().Toast, a.styles)
	confirm := ""
	if top, ok := a.Overlays.Peek(); ok {
		confirm = top.View.View()
	}
	return composeLayers(a.width, a.height, screen, toast, a.loading.View(), confirm)
}

// syncOverlays applies controller state to the loading layer and the
// confirm modal.
func (a *AppModel) syncOverlays() tea.Cmd {
	st := a.notifier.State()
	cmd := a.loading.Sync(st.Loading)

	top, hasModal := a.Overlays.Peek()
	switch {
	case st.Confirm.Visible && !hasModal:
		modal := NewConfirmModal(st.Confirm.Message, a.notifier.Resolve, a.styles.Confirm)
		a.Overlays.Push(Overlay{View: modal})
	case st.Confirm.Visible && hasModal:
		if m, ok := top.View.(*ConfirmModal); ok && m.Answered {
			// A new prompt opened after the answered one.
			a.Overlays.Pop()
			a.Overlays.Push(Overlay{View: NewConfirmModal(st.Confirm.Message, a.notifier.Resolve, a.styles.Confirm)})
		}
	case !st.Confirm.Visible && hasModal:
		a.Overlays.Pop()
	}
	return cmd
}

// navigate shows v in mode and keeps the current screen for back navigation.
func (a *AppModel) navigate(mode AppMode, v View) tea.Cmd {
	a.History.Push(Screen{Mode: a.Mode, View: a.currentView()})
	a.setScreen(Screen{Mode: mode, View: v})
	a.log.Debug().Stringer("mode", mode).Int("depth", a.History.Len()).Msg("navigate")
	return tea.Batch(a.sizeCurrent(), v.Init(), a.screenLoaded())
}

// back returns to the previous screen. Returning is a screen load too.
func (a *AppModel) back() tea.Cmd {
	sc, ok := a.History.Pop()
	if !ok {
		return nil
	}
	a.setScreen(sc)
	return tea.Batch(a.sizeCurrent(), a.screenLoaded())
}

// reload starts over on a fresh listing screen, as after a redirect to "/".
func (a *AppModel) reload() tea.Cmd {
	a.History.Clear()
	a.listing = storefront.NewListing(a.backend, a.notifier)
	a.Listing = NewListingView(a.listing, a.categories, a.currency)
	a.Detail = nil
	a.Checkout = nil
	a.Mode = ModeListing
	return tea.Batch(a.sizeCurrent(), a.Listing.Init(), a.screenLoaded())
}

// screenLoaded shows the toast persisted by the previous screen, if any.
func (a *AppModel) screenLoaded() tea.Cmd {
	if a.notifier.ConsumePersistedToast() {
		a.log.Debug().Stringer("mode", a.Mode).Msg("showed persisted toast")
	}
	return a.syncOverlays()
}

func (a *AppModel) sizeCurrent() tea.Cmd {
	if a.width == 0 && a.height == 0 {
		return nil
	}
	v, cmd := a.currentView().Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	a.setCurrentView(v)
	return cmd
}

func (a *AppModel) setScreen(sc Screen) {
	a.Mode = sc.Mode
	a.setCurrentView(sc.View)
}

func (a *AppModel) currentView() View {
	switch a.Mode {
	case ModeDetail:
		if a.Detail != nil {
			return a.Detail
		}
	case ModeCheckout:
		if a.Checkout != nil {
			return a.Checkout
		}
	}
	return a.Listing
}

func (a *AppModel) setCurrentView(v View) {
	switch a.Mode {
	case ModeListing:
		if l, ok := v.(*ListingView); ok {
			a.Listing = l
		}
	case ModeDetail:
		if d, ok := v.(*DetailView); ok {
			a.Detail = d
		}
	case ModeCheckout:
		if c, ok := v.(*CheckoutView); ok {
			a.Checkout = c
		}
	}
}

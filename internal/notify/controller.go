package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/logging"
	"storefront/internal/session"
)

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Store          session.Store // default: in-memory store
	Theme          Theme         // default: ThemeDefault
	Delay          time.Duration // toast dismiss delay, default DefaultDelay
	LoadingMessage string        // default DefaultLoadingMessage
	Clock          Clock         // default: wall clock
}

// persistedToast is the JSON stored under PersistedToastKey.
type persistedToast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Controller owns the toast, loading and confirm overlays.
type Controller struct {
	mu sync.Mutex

	store          session.Store
	clock          Clock
	theme          Theme
	delay          time.Duration
	loadingMessage string
	log            zerolog.Logger

	toast      ToastState
	toastTimer Timer
	toastSeq   uint64

	loading LoadingState

	confirm        ConfirmState
	confirmPending chan bool

	subscribers []func()
}

// Ensure Controller implements Notifier.
var _ Notifier = (*Controller)(nil)

// NewController creates the controller. Construct exactly one per program.
func NewController(opts Options) *Controller {
	c := &Controller{
		store:          opts.Store,
		clock:          opts.Clock,
		theme:          opts.Theme,
		delay:          opts.Delay,
		loadingMessage: opts.LoadingMessage,
		log:            logging.Component("notify"),
	}
	if c.store == nil {
		c.store = session.NewMemoryStore()
	}
	if c.clock == nil {
		c.clock = realClock{}
	}
	if c.theme == "" {
		c.theme = ThemeDefault
	}
	if c.delay <= 0 {
		c.delay = DefaultDelay
	}
	if strings.TrimSpace(c.loadingMessage) == "" {
		c.loadingMessage = DefaultLoadingMessage
	}
	return c
}

// Subscribe registers fn to run after every state change, including timer
// expiry. fn runs outside the controller lock and may call State.
func (c *Controller) Subscribe(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// State returns a snapshot of all overlays.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Theme:   c.theme,
		Toast:   c.toast,
		Loading: c.loading,
		Confirm: c.confirm,
	}
}

// ShowToast replaces the current toast and restarts the dismiss timer.
// A delay <= 0 uses the configured default.
func (c *Controller) ShowToast(message string, kind Kind, delay time.Duration) {
	if delay <= 0 {
		delay = c.delay
	}
	c.mu.Lock()
	if c.toastTimer != nil {
		c.toastTimer.Stop()
		c.toastTimer = nil
	}
	c.toastSeq++
	seq := c.toastSeq
	c.toast = ToastState{Visible: true, Message: message, Kind: ParseKind(string(kind))}
	c.toastTimer = c.clock.AfterFunc(delay, func() { c.expireToast(seq) })
	c.mu.Unlock()

	c.changed()
}

// expireToast hides the toast if seq is still the current one. A timer that
// fired after being superseded must not hide the newer toast.
func (c *Controller) expireToast(seq uint64) {
	c.mu.Lock()
	if seq != c.toastSeq || !c.toast.Visible {
		c.mu.Unlock()
		return
	}
	c.toast.Visible = false
	c.toastTimer = nil
	c.mu.Unlock()

	c.changed()
}

// DismissToast hides the toast immediately and cancels its timer.
func (c *Controller) DismissToast() {
	c.mu.Lock()
	if !c.toast.Visible {
		c.mu.Unlock()
		return
	}
	if c.toastTimer != nil {
		c.toastTimer.Stop()
		c.toastTimer = nil
	}
	c.toastSeq++
	c.toast.Visible = false
	c.mu.Unlock()

	c.changed()
}

// Notify implements Notifier.
func (c *Controller) Notify(message string, kind Kind) {
	c.ShowToast(message, kind, 0)
}

// PersistToast stores a toast for the next screen load, overwriting any
// earlier one. Call it right before navigating away.
func (c *Controller) PersistToast(message string, kind Kind) error {
	b, err := json.Marshal(persistedToast{Message: message, Type: string(ParseKind(string(kind)))})
	if err != nil {
		return fmt.Errorf("encode persisted toast: %w", err)
	}
	if err := c.store.Set(PersistedToastKey, string(b)); err != nil {
		return fmt.Errorf("persist toast: %w", err)
	}
	return nil
}

// ConsumePersistedToast shows and deletes the persisted toast, if any.
// It reports whether a toast was shown. The entry is removed before it is
// decoded, so a corrupt value is dropped rather than retried forever.
func (c *Controller) ConsumePersistedToast() bool {
	raw, ok, err := c.store.Get(PersistedToastKey)
	if err != nil {
		c.log.Error().Err(err).Msg("read persisted toast")
		return false
	}
	if !ok {
		return false
	}
	if err := c.store.Delete(PersistedToastKey); err != nil {
		c.log.Error().Err(err).Msg("delete persisted toast")
	}

	var pt persistedToast
	if err := json.Unmarshal([]byte(raw), &pt); err != nil {
		c.log.Warn().Err(err).Str("raw", raw).Msg("discarding malformed persisted toast")
		return false
	}
	if strings.TrimSpace(pt.Message) == "" {
		return false
	}
	c.ShowToast(pt.Message, ParseKind(pt.Type), 0)
	return true
}

// ShowLoading shows the loading overlay. Calls do not nest: the last message
// wins and a single HideLoading hides it.
func (c *Controller) ShowLoading(message string) {
	if strings.TrimSpace(message) == "" {
		message = c.loadingMessage
	}
	c.mu.Lock()
	c.loading = LoadingState{Visible: true, Message: message}
	c.mu.Unlock()

	c.changed()
}

// HideLoading hides the loading overlay.
func (c *Controller) HideLoading() {
	c.mu.Lock()
	c.loading.Visible = false
	c.mu.Unlock()

	c.changed()
}

// ShowBlockingOverlay implements Notifier.
func (c *Controller) ShowBlockingOverlay(message string) { c.ShowLoading(message) }

// HideBlockingOverlay implements Notifier.
func (c *Controller) HideBlockingOverlay() { c.HideLoading() }

// Confirm opens the confirm dialog and blocks until Resolve is called or ctx
// is done. Only one prompt may be open; a concurrent call gets
// ErrConfirmPending. Never call it from the Bubble Tea update loop, which is
// the goroutine that delivers the answer.
func (c *Controller) Confirm(ctx context.Context, message string) (bool, error) {
	c.mu.Lock()
	if c.confirmPending != nil {
		c.mu.Unlock()
		return false, ErrConfirmPending
	}
	answer := make(chan bool, 1)
	c.confirmPending = answer
	c.confirm = ConfirmState{Visible: true, Message: message}
	c.mu.Unlock()

	c.changed()

	select {
	case ok := <-answer:
		return ok, nil
	case <-ctx.Done():
	}

	c.mu.Lock()
	if c.confirmPending != answer {
		// Resolve won the race; its answer is already buffered.
		c.mu.Unlock()
		return <-answer, nil
	}
	c.confirmPending = nil
	c.confirm.Visible = false
	c.mu.Unlock()

	c.changed()
	return false, ctx.Err()
}

// Resolve answers the open confirm dialog: true for the affirmative control,
// false for cancel. It reports whether a prompt was open.
func (c *Controller) Resolve(answer bool) bool {
	c.mu.Lock()
	pending := c.confirmPending
	if pending == nil {
		c.mu.Unlock()
		return false
	}
	c.confirmPending = nil
	c.confirm.Visible = false
	pending <- answer
	c.mu.Unlock()

	c.changed()
	return true
}

// ConfirmPending reports whether a confirm dialog is waiting for an answer.
func (c *Controller) ConfirmPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmPending != nil
}

func (c *Controller) changed() {
	c.mu.Lock()
	subs := make([]func(), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

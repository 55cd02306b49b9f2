// Package notify implements the storefront's notification and overlay
// controller: transient toasts, a blocking loading overlay, a confirm prompt,
// and a one-shot toast that survives a screen navigation.
//
// A single Controller is constructed at startup and handed to page
// controllers through the Notifier interface. It is safe for concurrent use:
// page controllers call it from tea.Cmd goroutines while the UI reads State
// from the Bubble Tea update loop.
package notify

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Kind is the toast severity.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

// ParseKind maps a stored or user-supplied kind name to a Kind.
// Unknown names fall back to KindSuccess.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindError:
		return KindError
	case KindWarning:
		return KindWarning
	default:
		return KindSuccess
	}
}

// Icon returns the glyph rendered next to a toast of this kind.
func (k Kind) Icon() string {
	switch k {
	case KindError:
		return "✕"
	case KindWarning:
		return "⚠"
	default:
		return "✓"
	}
}

// Theme selects overlay styling. It is fixed at construction.
type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeMinimal Theme = "minimal"
)

// ParseTheme returns the named theme, or ThemeDefault for unknown names.
func ParseTheme(s string) Theme {
	if Theme(strings.ToLower(strings.TrimSpace(s))) == ThemeMinimal {
		return ThemeMinimal
	}
	return ThemeDefault
}

const (
	// DefaultDelay is how long a toast stays visible unless told otherwise.
	DefaultDelay = 3000 * time.Millisecond
	// DefaultLoadingMessage is shown by ShowLoading when no message is given.
	DefaultLoadingMessage = "Loading..."
	// PersistedToastKey is the session store key of the pending toast.
	PersistedToastKey = "sessionToast"
)

// ErrConfirmPending is returned by Confirm while another prompt is open.
var ErrConfirmPending = errors.New("notify: confirm already pending")

// Notifier is the capability page controllers use to talk to the user.
type Notifier interface {
	// Notify shows a toast with the default dismiss delay.
	Notify(message string, kind Kind)
	// ShowBlockingOverlay shows the loading overlay.
	ShowBlockingOverlay(message string)
	// HideBlockingOverlay hides the loading overlay.
	HideBlockingOverlay()
	// Confirm asks a yes/no question and blocks until it is answered.
	Confirm(ctx context.Context, message string) (bool, error)
	// PersistToast stores a toast for the next screen load.
	PersistToast(message string, kind Kind) error
}

// ToastState is the rendered toast.
type ToastState struct {
	Visible bool
	Message string
	Kind    Kind
}

// Icon is the glyph for the toast's kind.
func (t ToastState) Icon() string { return t.Kind.Icon() }

// LoadingState is the rendered loading overlay.
type LoadingState struct {
	Visible bool
	Message string
}

// ConfirmState is the rendered confirm dialog.
type ConfirmState struct {
	Visible bool
	Message string
}

// State is a point-in-time snapshot of every overlay.
type State struct {
	Theme   Theme
	Toast   ToastState
	Loading LoadingState
	Confirm ConfirmState
}

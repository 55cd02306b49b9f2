// Package ui is the Bubble Tea front end of the storefront client.
//
// Core abstractions:
//   - View: a screen or modal with its own model, update and view (Elm-style)
//   - ViewStack: screens behind the current one, for back navigation
//   - OverlayStack: modals that take input before the screen
//   - KeybindRegistry / KeyHandler: every key, per screen mode; screens only
//     receive the action messages the bindings emit
//
// Layers are drawn bottom to top: screen, toast, loading, confirm. Overlay
// state lives in a notify.Controller; the app re-reads it on every
// OverlayChangedMsg.
package ui

package ui

import "storefront/internal/api"

// OverlayChangedMsg is sent whenever the notification controller's state
// changes, including toast expiry. The app re-reads State on receipt.
type OverlayChangedMsg struct{}

// SelectCategoryMsg asks the listing screen to load a category.
type SelectCategoryMsg struct {
	ID string
}

// CategoryLoadedMsg is sent when a category fetch finishes. Err is nil on
// success; failures have already been reported as a toast.
type CategoryLoadedMsg struct {
	ID  string
	Err error
}

// SelectProductMsg is sent when the user opens a product from the listing.
type SelectProductMsg struct {
	Product api.Product
}

// AddToCartMsg triggers add-to-cart on the detail screen.
type AddToCartMsg struct{}

// AddToCartDoneMsg is sent when add-to-cart finishes.
type AddToCartDoneMsg struct {
	Err error
}

// BuyNowMsg triggers buy-now on the detail screen.
type BuyNowMsg struct{}

// BuyNowDoneMsg carries the location the backend redirected to.
type BuyNowDoneMsg struct {
	Location string
	Err      error
}

// LogoutMsg starts the logout flow (SPC o).
type LogoutMsg struct{}

// LogoutDoneMsg is sent when logout finishes. An empty Location with a nil
// Err means the user declined.
type LogoutDoneMsg struct {
	Location string
	Err      error
}

// RefreshMsg reloads the current category (SPC r).
type RefreshMsg struct{}

// BackMsg returns to the previous screen.
type BackMsg struct{}

// Screen actions. The key registry emits these; the current view applies them.

// CycleSortMsg moves the listing to the next price order.
type CycleSortMsg struct{}

// CategoryStepMsg moves the category tab by Delta, wrapping around.
type CategoryStepMsg struct {
	Delta int
}

// CategoryJumpMsg selects the category at Index. Out-of-range is ignored.
type CategoryJumpMsg struct {
	Index int
}

// OpenSelectedMsg opens the highlighted product.
type OpenSelectedMsg struct{}

// ImageStepMsg moves one image forward (Delta > 0) or back, wrapping around.
type ImageStepMsg struct {
	Delta int
}

// ImageJumpMsg shows the gallery image at Index. Out-of-range is ignored.
type ImageJumpMsg struct {
	Index int
}

// QuantityStepMsg adds (Delta > 0) or removes one unit within the stepper bounds.
type QuantityStepMsg struct {
	Delta int
}

// NextVariantMsg selects the product's next variant combination.
type NextVariantMsg struct{}

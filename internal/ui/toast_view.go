package ui

import (
	"storefront/internal/notify"
	"storefront/internal/ui/textutil"
)

// maxToastWidth bounds the toast so long backend messages do not fill the row.
const maxToastWidth = 60

// renderToast draws the toast layer, or "" when hidden.
func renderToast(st notify.ToastState, styles OverlayStyles) string {
	if !st.Visible {
		return ""
	}
	text := st.Icon() + " " + textutil.Truncate(st.Message, maxToastWidth)
	return styles.ToastStyle(st.Kind).Render(text)
}

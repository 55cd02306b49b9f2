package storefront

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = "USD"

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"TRY": "₺",
}

// FormatPrice renders price in currency using English digit grouping.
func FormatPrice(price float64, code string) string {
	return FormatPriceIn(language.English, price, code)
}

// FormatPriceIn renders price with the digit grouping of tag. Known
// currencies get a leading symbol; other valid ISO codes are appended.
func FormatPriceIn(tag language.Tag, price float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}

	scale := 2
	if unit, err := currency.ParseISO(code); err == nil {
		scale, _ = currency.Standard.Rounding(unit)
		code = unit.String()
	}

	sign := ""
	if price < 0 {
		sign = "-"
		price = math.Abs(price)
	}
	p := message.NewPrinter(tag)
	digits := p.Sprintf(fmt.Sprintf("%%.%df", scale), price)

	if sym, ok := currencySymbols[code]; ok {
		return sign + sym + digits
	}
	return sign + digits + " " + code
}

// Package money renders decimal amounts for display. Pricing math upstream
// keeps full precision; the two-digit rounding happens here and only here.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Format renders the amount with grouping separators and exactly two
// fraction digits, e.g. 1234.5 becomes "1,234.50".
func Format(amount decimal.Decimal) string {
	rounded, _ := amount.Round(2).Float64()
	return printer.Sprintf("%v", number.Decimal(rounded,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// Fixed renders the amount as a plain two-digit string without grouping,
// suitable for machine consumption.
func Fixed(amount decimal.Decimal) string {
	return amount.Round(2).StringFixed(2)
}

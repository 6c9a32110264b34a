// Package money converts decimal amounts into API values and display strings.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// SEK is the reporting currency of the portfolio.
const SEK = "SEK"

// Round returns d rounded half away from zero to two decimals as a float.
func Round(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// Format renders d with the symbol and separators of currency,
// e.g. "1 234,50 kr" for SEK. Unknown codes use a generic layout.
func Format(d decimal.Decimal, currency string) string {
	// go-money returns a usable currency only through the constructor
	cur := *gomoney.New(0, currency).Currency()
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatSEK is Format for the reporting currency.
func FormatSEK(d decimal.Decimal) string {
	return Format(d, SEK)
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

package catalog

import "github.com/shopspring/decimal"

// FormatPrice renders an amount in the smallest currency unit with two
// decimals, e.g. 199090 -> "1990.90".
func FormatPrice(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}

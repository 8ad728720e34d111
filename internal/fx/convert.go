// Package fx normalizes listing prices to USD with fixed per-currency
// multipliers. Live FX rates are a collaborator concern; these factors only
// need to be close enough for price clustering.
package fx

import "strings"

// usdMultipliers maps a currency code to its USD conversion factor.
var usdMultipliers = map[string]float64{
	"USD": 1,
	"EUR": 1.09,
	"GBP": 1.27,
	"CAD": 0.73,
	"AUD": 0.66,
	"CNY": 0.14,
	"HKD": 0.13,
	"RUB": 0.011,
	"AED": 0.27,
}

// ToUSD converts a price in the given currency to USD. Unknown currency
// codes convert to 0 so the listing drops out of consensus instead of
// skewing it.
func ToUSD(price float64, currency string) float64 {
	m, ok := usdMultipliers[strings.ToUpper(strings.TrimSpace(currency))]
	if !ok {
		return 0
	}
	return price * m
}

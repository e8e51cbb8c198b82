package domain

import (
	"fmt"
	"strings"
)

// Currency is an ISO 4217 currency code from the supported set.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
	CurrencyCHF Currency = "CHF"
)

// Currencies enumerates the supported currency codes.
var Currencies = []Currency{
	CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY,
	CurrencyCAD, CurrencyAUD, CurrencyCHF,
}

// ParseCurrency maps a wire token onto a Currency. Tokens are matched exactly
// against the uppercase codes.
func ParseCurrency(value string) (Currency, error) {
	c := Currency(value)
	if !c.Valid() {
		return "", fmt.Errorf("unknown currency %q, expected one of %s", value, currencyList())
	}
	return c, nil
}

// Valid reports whether c is one of the supported currency codes.
func (c Currency) Valid() bool {
	for _, known := range Currencies {
		if c == known {
			return true
		}
	}
	return false
}

func currencyList() string {
	codes := make([]string, len(Currencies))
	for i, c := range Currencies {
		codes[i] = string(c)
	}
	return strings.Join(codes, ", ")
}

package valueobjects

import "strings"

// Currency is an ISO 4217 currency code supported by the platform.
type Currency string

const (
	CurrencyUAH Currency = "UAH"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

var SupportedCurrencies = map[Currency]bool{
	CurrencyUAH: true,
	CurrencyUSD: true,
	CurrencyEUR: true,
}

// ParseCurrency normalizes and validates a currency code.
func ParseCurrency(code string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	return c, SupportedCurrencies[c]
}

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	return SupportedCurrencies[c]
}

package models

// ISOCurrency is an ISO 4217 currency code from the supported set.
type ISOCurrency string

// Supported portfolio and instrument currencies.
const (
	CurrencyUSD ISOCurrency = "USD"
	CurrencyEUR ISOCurrency = "EUR"
	CurrencyGBP ISOCurrency = "GBP"
	CurrencyJPY ISOCurrency = "JPY"
	CurrencyCHF ISOCurrency = "CHF"
	CurrencyAUD ISOCurrency = "AUD"
	CurrencyCAD ISOCurrency = "CAD"
	CurrencySGD ISOCurrency = "SGD"
	CurrencyINR ISOCurrency = "INR"
)

// Valid returns true if the currency code is one of the supported constants.
func (c ISOCurrency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY, CurrencyCHF,
		CurrencyAUD, CurrencyCAD, CurrencySGD, CurrencyINR:
		return true
	default:
		return false
	}
}

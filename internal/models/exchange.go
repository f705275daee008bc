package models

// ExchangeRate is one cached currency conversion rate for a specific date.
// Rates are an external collaborator's data; the engine itself only ever
// sees pre-converted cents.
type ExchangeRate struct {
	// FromCurrency is the source ISO 4217 code.
	FromCurrency string `json:"from_currency"`

	// ToCurrency is the target ISO 4217 code.
	ToCurrency string `json:"to_currency"`

	// Rate is the multiplier from source to target units.
	Rate float64 `json:"rate"`

	// RateDate is the date the rate applies to, in YYYY-MM-DD form.
	RateDate string `json:"rate_date"`

	// Source is where the rate came from (e.g., "frankfurter", "manual").
	Source string `json:"source"`

	// CreatedAt is the Unix timestamp when the rate was cached.
	CreatedAt int64 `json:"created_at"`
}

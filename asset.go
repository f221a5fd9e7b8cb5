package moneymarket

import (
	"fmt"
)

// Asset is one row of the portfolio: a supported denomination with its
// display metadata and the three quantities held by the user.
//
// Quantities can only change through the Portfolio operations.
type Asset struct {
	denom    string
	symbol   string
	name     string
	decimals int
	apy      string

	balance  Amount
	supplied Amount
	borrowed Amount
}

// NewAsset creates an asset with an initial wallet balance and nothing
// supplied nor borrowed.
func NewAsset(denom, symbol, name string, decimals int, apy string, balance Amount) Asset {
	return Asset{
		denom:    denom,
		symbol:   symbol,
		name:     name,
		decimals: decimals,
		apy:      apy,
		balance:  balance,
	}
}

// WithPosition returns a copy of the asset with the given supplied and
// borrowed quantities. It is meant to seed a portfolio.
func (a Asset) WithPosition(supplied, borrowed Amount) Asset {
	a.supplied = supplied
	a.borrowed = borrowed
	return a
}

// Read-only accessors. Quantities only change through the Portfolio
// operations.
func (a Asset) Denom() string    { return a.denom }
func (a Asset) Symbol() string   { return a.symbol }
func (a Asset) Name() string     { return a.name }
func (a Asset) Decimals() int    { return a.decimals }
func (a Asset) APY() string      { return a.apy }
func (a Asset) Balance() Amount  { return a.balance }
func (a Asset) Supplied() Amount { return a.supplied }
func (a Asset) Borrowed() Amount { return a.borrowed }

// Validate checks that the asset is identified and that no quantity is negative.
func (a Asset) Validate() error {
	if a.denom == "" {
		return fmt.Errorf("asset %q: denom is missing", a.symbol)
	}
	if a.decimals < 0 {
		return fmt.Errorf("asset %q: decimals must not be negative, got %d", a.denom, a.decimals)
	}
	for _, q := range []struct {
		name  string
		value Amount
	}{{"balance", a.balance}, {"supplied", a.supplied}, {"borrowed", a.borrowed}} {
		if q.value.IsNegative() {
			return fmt.Errorf("asset %q: %s is %s: %w", a.denom, q.name, q.value, ErrNegativeQuantity)
		}
	}
	return nil
}

// checkPrecision verifies that 'amount' can be expressed with the asset decimals.
func (a Asset) checkPrecision(amount Amount) error {
	if amount.Places() > a.decimals {
		return fmt.Errorf("%w: more than %d decimal places for %s", ErrTooPrecise, a.decimals, a.symbol)
	}
	return nil
}

func (a Asset) String() string {
	return fmt.Sprintf("%s(balance=%s supplied=%s borrowed=%s)", a.symbol, a.balance, a.supplied, a.borrowed)
}

// MarshalJSON implements the json.Marshaler interface for Asset.
func (a Asset) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("denom", a.denom)
	w.Append("symbol", a.symbol)
	w.Append("name", a.name)
	w.Append("decimals", a.decimals)
	w.Optional("apy", a.apy)
	w.Append("balance", a.balance)
	w.Append("supplied", a.supplied)
	w.Append("borrowed", a.borrowed)
	return w.MarshalJSON()
}

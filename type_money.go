package moneymarket

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ReportingCurrency is the currency used to value the whole portfolio.
//
// Every asset is valued 1:1 in this currency, there is no price oracle.
const ReportingCurrency = "USD"

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates money from a numeric constant.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// Value converts an amount into its reporting currency value.
func Value(a Amount) Money { return Money{value: a.value, cur: ReportingCurrency} }

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the formatted value, like "$200.00".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

// Fixed returns the value without currency symbol, rounded to the currency
// fraction, like "200.00".
func (m Money) Fixed() string {
	return m.value.StringFixed(int32(m.currency().Fraction))
}

func (m Money) Currency() string         { return m.cur }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) LessThan(n Money) bool    { return m.value.LessThan(n.value) }
func (m Money) Amount() Amount           { return Amount{value: m.value} }
func (m Money) Decimal() decimal.Decimal { return m.value }

// MarshalJSON encodes money as its fixed string, like "200.00".
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Fixed() + `"`), nil
}

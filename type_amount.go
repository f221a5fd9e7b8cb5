package moneymarket

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Amount is an exact quantity of an asset.
type Amount struct {
	value decimal.Decimal
}

// A creates an Amount from a numeric constant.
func A[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Amount {
	return Amount{value: newDecimal(value)}
}

// Bounds of an amount, no asset needs more.
const (
	MaxPlaces        = 18
	MaxIntegerDigits = 30
)

// ParseAmount parses a decimal string such as "200.0".
//
// Exponent notation is accepted ("2e2"), but the amount must fit in
// MaxIntegerDigits and MaxPlaces.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrMissingAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	a := Amount{value: d}
	if err := a.checkBounds(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

// checkBounds verifies the amount against MaxPlaces and MaxIntegerDigits.
// The error never prints the amount itself.
func (a Amount) checkBounds() error {
	if a.Places() > MaxPlaces {
		return fmt.Errorf("%w: more than %d decimal places", ErrTooPrecise, MaxPlaces)
	}
	if a.integerDigits() > MaxIntegerDigits {
		return fmt.Errorf("%w: more than %d integer digits", ErrInvalidAmount, MaxIntegerDigits)
	}
	return nil
}

// MustParseAmount is like ParseAmount but panics on error.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Equal(b Amount) bool              { return a.value.Equal(b.value) }
func (a Amount) LessThan(b Amount) bool           { return a.value.LessThan(b.value) }
func (a Amount) LessThanOrEqual(b Amount) bool    { return a.value.LessThanOrEqual(b.value) }
func (a Amount) GreaterThan(b Amount) bool        { return a.value.GreaterThan(b.value) }
func (a Amount) GreaterThanOrEqual(b Amount) bool { return a.value.GreaterThanOrEqual(b.value) }
func (a Amount) Add(b Amount) Amount              { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount              { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) IsNegative() bool                 { return a.value.IsNegative() }
func (a Amount) IsPositive() bool                 { return a.value.IsPositive() }
func (a Amount) IsZero() bool                     { return a.value.IsZero() }
func (a Amount) Decimal() decimal.Decimal         { return a.value }

// Places returns the number of significant fractional digits.
//
// It is computed from the exponent, trailing zeros of the coefficient do not
// count.
func (a Amount) Places() int {
	places := -int(a.value.Exponent())
	if places <= 0 || a.value.IsZero() {
		return 0
	}
	c := a.value.Coefficient()
	ten, q, r := big.NewInt(10), new(big.Int), new(big.Int)
	for places > 0 {
		q.QuoRem(c, ten, r)
		if r.Sign() != 0 {
			break
		}
		c, q = q, c
		places--
	}
	return places
}

// integerDigits returns the number of digits before the decimal point.
func (a Amount) integerDigits() int {
	if a.value.IsZero() {
		return 0
	}
	return a.value.NumDigits() + int(a.value.Exponent())
}

// String returns the amount with at least one fractional digit, like "1000.0"
// or "999.95".
func (a Amount) String() string {
	s := a.value.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Fixed returns the amount rounded to exactly 'places' fractional digits.
func (a Amount) Fixed(places int32) string { return a.value.StringFixed(places) }

// MarshalJSON encodes the amount as a JSON string, to keep it exact.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both JSON strings and numbers.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if err := a.value.UnmarshalJSON(b); err != nil {
		return err
	}
	return a.checkBounds()
}

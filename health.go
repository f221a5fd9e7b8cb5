package moneymarket

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Infinity is how an infinite health factor is displayed.
const Infinity = "∞"

// HealthFactor is the ratio of total collateral to total borrowed value.
// Higher is safer; it is infinite when nothing is borrowed.
type HealthFactor struct {
	value    decimal.Decimal
	infinite bool
}

// NewHealthFactor computes supplied / borrowed, or the infinity sentinel when
// borrowed is zero.
func NewHealthFactor(supplied, borrowed Amount) HealthFactor {
	if borrowed.IsZero() {
		return HealthFactor{infinite: true}
	}
	return HealthFactor{value: supplied.value.Div(borrowed.value)}
}

// IsInfinite reports whether nothing is borrowed.
func (h HealthFactor) IsInfinite() bool { return h.infinite }

// Ratio returns the finite ratio, ok is false for the infinity sentinel.
func (h HealthFactor) Ratio() (ratio decimal.Decimal, ok bool) {
	return h.value, !h.infinite
}

// String returns "∞" or the ratio with two decimals, like "4.00".
func (h HealthFactor) String() string {
	if h.infinite {
		return Infinity
	}
	return h.value.StringFixed(2)
}

// Status classifies the health factor the way the dashboard colors it.
func (h HealthFactor) Status() HealthStatus {
	switch {
	case h.infinite || h.value.GreaterThanOrEqual(decimal.NewFromInt(2)):
		return Healthy
	case h.value.GreaterThanOrEqual(decimal.RequireFromString("1.5")):
		return Moderate
	default:
		return AtRisk
	}
}

// MarshalJSON encodes the health factor as its display string.
func (h HealthFactor) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// HealthStatus is a coarse classification of a HealthFactor.
type HealthStatus int

const (
	// Healthy means a health factor of 2 or more (or nothing borrowed).
	Healthy HealthStatus = iota
	// Moderate means a health factor between 1.5 and 2.
	Moderate
	// AtRisk means a health factor below 1.5.
	AtRisk
)

func (s HealthStatus) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Moderate:
		return "moderate"
	case AtRisk:
		return "at-risk"
	default:
		return fmt.Sprintf("HealthStatus(%d)", int(s))
	}
}

// MarshalJSON implements the json.Marshaler interface for HealthStatus.
func (s HealthStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

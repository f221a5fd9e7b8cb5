package moneymarket

import (
	"iter"
	"slices"
)

// Snapshot is an immutable view of a portfolio with all its derived metrics,
// as consumed by the display surface.
type Snapshot struct {
	assets            []Asset
	TotalSupplied     Amount
	TotalBorrowed     Amount
	HealthFactor      HealthFactor
	BorrowingPower    Money
	AvailableToBorrow Money
}

// Snapshot captures the current state of the portfolio.
func (p *Portfolio) Snapshot() Snapshot {
	// p.assets is never modified in place, sharing it is safe.
	return Snapshot{
		assets:            p.assets,
		TotalSupplied:     p.TotalSupplied(),
		TotalBorrowed:     p.TotalBorrowed(),
		HealthFactor:      p.HealthFactor(),
		BorrowingPower:    p.BorrowingPower(),
		AvailableToBorrow: p.AvailableToBorrow(),
	}
}

// Assets returns an iterator over the assets in display order.
func (s Snapshot) Assets() iter.Seq[Asset] { return slices.Values(s.assets) }

// AssetList returns a copy of the assets in display order.
func (s Snapshot) AssetList() []Asset { return slices.Clone(s.assets) }

// Asset returns the asset with this denom.
func (s Snapshot) Asset(denom string) (Asset, bool) {
	for _, a := range s.assets {
		if a.denom == denom {
			return a, true
		}
	}
	return Asset{}, false
}

// TotalSuppliedValue returns the total supplied in the reporting currency.
func (s Snapshot) TotalSuppliedValue() Money { return Value(s.TotalSupplied) }

// TotalBorrowedValue returns the total borrowed in the reporting currency.
func (s Snapshot) TotalBorrowedValue() Money { return Value(s.TotalBorrowed) }

// MarshalJSON implements the json.Marshaler interface for Snapshot.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	assets := s.assets
	if assets == nil {
		assets = []Asset{}
	}
	var w jsonObjectWriter
	w.Append("assets", assets)
	w.Append("totalSupplied", s.TotalSuppliedValue())
	w.Append("totalBorrowed", s.TotalBorrowedValue())
	w.Append("healthFactor", s.HealthFactor)
	w.Append("healthStatus", s.HealthFactor.Status())
	w.Append("borrowingPower", s.BorrowingPower)
	w.Append("availableToBorrow", s.AvailableToBorrow)
	return w.MarshalJSON()
}

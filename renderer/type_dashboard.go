package renderer

import (
	"strings"

	"github.com/etnz/moneymarket"
	"github.com/shopspring/decimal"
)

// Dashboard is the data of the dashboard view.
// Numbers keep their exact types (Money, Amount) so that they already know
// how to display themselves.
type Dashboard struct {
	// Network the market is deployed on, informational.
	Network string `json:"network,omitempty"`
	// TotalSupplied is the value of all supplied collateral.
	TotalSupplied moneymarket.Money `json:"totalSupplied"`
	// TotalBorrowed is the value of all outstanding borrows.
	TotalBorrowed moneymarket.Money `json:"totalBorrowed"`
	// SupplyAPY is the supplied-weighted APY, like "12.50%".
	SupplyAPY string `json:"supplyAPY"`
	// BorrowAPR is the borrowed-weighted APY, like "8.20%".
	BorrowAPR string `json:"borrowAPR"`
	// HealthFactor is "∞" or the ratio with two decimals.
	HealthFactor string `json:"healthFactor"`
	// HealthStatus is the human label of the health factor.
	HealthStatus string `json:"healthStatus"`
	// BorrowingPower is the collateral value that can be borrowed.
	BorrowingPower moneymarket.Money `json:"borrowingPower"`
	// AvailableToBorrow is the borrowing power not used yet.
	AvailableToBorrow moneymarket.Money `json:"availableToBorrow"`
	// BestAPY is the highest APY of all markets.
	BestAPY string `json:"bestAPY"`
	// Positions lists the assets with something supplied or borrowed.
	Positions []DashboardAsset `json:"positions"`
	// Assets lists every market in display order.
	Assets []DashboardAsset `json:"assets"`
}

// DashboardAsset is one row of the dashboard tables.
type DashboardAsset struct {
	Denom    string             `json:"denom"`
	Symbol   string             `json:"symbol"`
	Name     string             `json:"name"`
	APY      string             `json:"apy"`
	Balance  moneymarket.Amount `json:"balance"`
	Supplied moneymarket.Amount `json:"supplied"`
	Borrowed moneymarket.Amount `json:"borrowed"`
}

// NewDashboard creates a new Dashboard from a portfolio snapshot.
func NewDashboard(s moneymarket.Snapshot, network string) *Dashboard {
	d := &Dashboard{
		Network:           network,
		TotalSupplied:     s.TotalSuppliedValue(),
		TotalBorrowed:     s.TotalBorrowedValue(),
		HealthFactor:      s.HealthFactor.String(),
		HealthStatus:      healthLabel(s.HealthFactor.Status()),
		BorrowingPower:    s.BorrowingPower,
		AvailableToBorrow: s.AvailableToBorrow,
		Positions:         make([]DashboardAsset, 0),
		Assets:            make([]DashboardAsset, 0),
	}

	var supplyWeight, borrowWeight, best decimal.Decimal
	d.BestAPY = "-"
	for a := range s.Assets() {
		row := DashboardAsset{
			Denom:    a.Denom(),
			Symbol:   a.Symbol(),
			Name:     a.Name(),
			APY:      a.APY(),
			Balance:  a.Balance(),
			Supplied: a.Supplied(),
			Borrowed: a.Borrowed(),
		}
		if row.APY == "" {
			row.APY = "-"
		}
		d.Assets = append(d.Assets, row)
		if !a.Supplied().IsZero() || !a.Borrowed().IsZero() {
			d.Positions = append(d.Positions, row)
		}

		apy, ok := parsePercent(a.APY())
		if !ok {
			continue
		}
		supplyWeight = supplyWeight.Add(a.Supplied().Decimal().Mul(apy))
		borrowWeight = borrowWeight.Add(a.Borrowed().Decimal().Mul(apy))
		if d.BestAPY == "-" || apy.GreaterThan(best) {
			best, d.BestAPY = apy, a.APY()
		}
	}
	d.SupplyAPY = weightedPercent(supplyWeight, s.TotalSupplied)
	d.BorrowAPR = weightedPercent(borrowWeight, s.TotalBorrowed)
	return d
}

// healthLabel is the label displayed next to the health factor.
func healthLabel(s moneymarket.HealthStatus) string {
	switch s {
	case moneymarket.Healthy:
		return "Healthy"
	case moneymarket.Moderate:
		return "Moderate"
	default:
		return "At Risk"
	}
}

// parsePercent parses strings like "12.5%".
func parsePercent(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// weightedPercent returns weight/total as a percentage with two decimals.
func weightedPercent(weight decimal.Decimal, total moneymarket.Amount) string {
	if total.IsZero() {
		return "0.00%"
	}
	return weight.Div(total.Decimal()).StringFixed(2) + "%"
}

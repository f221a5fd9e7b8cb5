package renderer

import (
	"io"

	"github.com/etnz/moneymarket"
	"github.com/olekukonko/tablewriter"
)

// newTable creates a borderless table with the given headers.
func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(headers)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetBorder(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	return t
}

// AssetsTable writes the markets of the dashboard as a plain text table.
func AssetsTable(w io.Writer, d *Dashboard) {
	t := newTable(w, "Asset", "Denom", "APY", "Balance", "Supplied", "Borrowed")
	t.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for _, a := range d.Assets {
		t.Append([]string{a.Symbol, a.Denom, a.APY, a.Balance.String(), a.Supplied.String(), a.Borrowed.String()})
	}
	t.Render()
}

// MetricsTable writes the derived metrics as a plain text table.
func MetricsTable(w io.Writer, d *Dashboard) {
	t := newTable(w, "Metric", "Value", "")
	t.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})
	t.AppendBulk([][]string{
		{"Total Supplied", d.TotalSupplied.String(), "+" + d.SupplyAPY + " APY"},
		{"Total Borrowed", d.TotalBorrowed.String(), d.BorrowAPR + " APR"},
		{"Health Factor", d.HealthFactor, d.HealthStatus},
		{"Borrowing Power", d.BorrowingPower.String(), d.AvailableToBorrow.String() + " available"},
	})
	t.Render()
}

// DashboardTable writes the metrics and the markets of a snapshot.
func DashboardTable(w io.Writer, s moneymarket.Snapshot) {
	d := NewDashboard(s, "")
	MetricsTable(w, d)
	io.WriteString(w, "\n")
	AssetsTable(w, d)
}

// ReceiptsTable writes the session history as a plain text table.
func ReceiptsTable(w io.Writer, rs []moneymarket.Receipt) {
	t := newTable(w, "Time", "Action", "Amount", "Transaction")
	for _, r := range rs {
		v := NewReceipt(r)
		t.Append([]string{v.Time, v.Command, v.Amount.String() + " " + v.Symbol, v.ShortHash()})
	}
	t.Render()
}

package moneymarket

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// position is a helper for test to read the three quantities of an asset.
func position(t *testing.T, p *Portfolio, denom string) (balance, supplied, borrowed string) {
	t.Helper()
	a, ok := p.Asset(denom)
	if !ok {
		t.Fatalf("asset %q not found", denom)
	}
	return a.Balance().String(), a.Supplied().String(), a.Borrowed().String()
}

func TestPortfolio_Scenarios(t *testing.T) {
	testCases := []struct {
		name         string
		ops          func(p *Portfolio) error
		wantBalance  string
		wantSupplied string
		wantBorrowed string
	}{
		{
			name:         "seed",
			ops:          func(p *Portfolio) error { return nil },
			wantBalance:  "1000.0",
			wantSupplied: "0.0",
			wantBorrowed: "0.0",
		},
		{
			name:         "supply",
			ops:          func(p *Portfolio) error { return p.Supply("unibi", MustParseAmount("200.0")) },
			wantBalance:  "800.0",
			wantSupplied: "200.0",
			wantBorrowed: "0.0",
		},
		{
			name: "supply then withdraw",
			ops: func(p *Portfolio) error {
				if err := p.Supply("unibi", MustParseAmount("200.0")); err != nil {
					return err
				}
				return p.Withdraw("unibi", MustParseAmount("50.0"))
			},
			wantBalance:  "850.0",
			wantSupplied: "150.0",
			wantBorrowed: "0.0",
		},
		{
			name: "supply then borrow",
			ops: func(p *Portfolio) error {
				if err := p.Supply("unibi", MustParseAmount("200.0")); err != nil {
					return err
				}
				return p.Borrow("unibi", MustParseAmount("50.0"))
			},
			wantBalance:  "850.0",
			wantSupplied: "200.0",
			wantBorrowed: "50.0",
		},
		{
			name: "borrow then repay",
			ops: func(p *Portfolio) error {
				if err := p.Supply("unibi", MustParseAmount("200.0")); err != nil {
					return err
				}
				if err := p.Borrow("unibi", MustParseAmount("50.0")); err != nil {
					return err
				}
				return p.Repay("unibi", MustParseAmount("50.0"))
			},
			wantBalance:  "800.0",
			wantSupplied: "200.0",
			wantBorrowed: "0.0",
		},
		{
			name:         "fractional supply",
			ops:          func(p *Portfolio) error { return p.Supply("unibi", MustParseAmount("0.05")) },
			wantBalance:  "999.95",
			wantSupplied: "0.05",
			wantBorrowed: "0.0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultPortfolio()
			if err := tc.ops(p); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			balance, supplied, borrowed := position(t, p, "unibi")
			if balance != tc.wantBalance || supplied != tc.wantSupplied || borrowed != tc.wantBorrowed {
				t.Errorf("unibi = (%s, %s, %s), want (%s, %s, %s)", balance, supplied, borrowed, tc.wantBalance, tc.wantSupplied, tc.wantBorrowed)
			}
		})
	}
}

func TestPortfolio_Rejections(t *testing.T) {
	testCases := []struct {
		name    string
		setup   []Action
		cmd     CommandType
		denom   string
		amount  string
		wantErr error
	}{
		{"unknown asset", nil, CmdSupply, "btc", "1", ErrUnknownAsset},
		{"zero supply", nil, CmdSupply, "unibi", "0", ErrNonPositiveAmount},
		{"negative supply", nil, CmdSupply, "unibi", "-1", ErrNonPositiveAmount},
		{"supply above balance", nil, CmdSupply, "unibi", "1000.1", ErrInsufficientBalance},
		{"too precise", nil, CmdSupply, "unibi", "0.0000001", ErrTooPrecise},
		{"unknown command", nil, "lend", "unibi", "1", ErrUnknownCommand},
		{"upper case supply above balance", nil, "SUPPLY", "unibi", "1000.1", ErrInsufficientBalance},
		{"withdraw nothing supplied", nil, CmdWithdraw, "unibi", "1", ErrInsufficientSupplied},
		{"zero withdraw", []Action{NewSupply("unibi", "10")}, CmdWithdraw, "unibi", "0", ErrNonPositiveAmount},
		{"borrow without collateral", nil, CmdBorrow, "unibi", "1", ErrNoCollateral},
		{"borrow above power", []Action{NewSupply("unibi", "200.0")}, CmdBorrow, "unibi", "200.0", ErrInsufficientCollateral},
		{"borrow above remaining power", []Action{NewSupply("unibi", "200.0"), NewBorrow("usdc", "100.0")}, CmdBorrow, "unibi", "50.1", ErrInsufficientCollateral},
		{"zero borrow", []Action{NewSupply("unibi", "200.0")}, CmdBorrow, "unibi", "0", ErrNonPositiveAmount},
		{"repay nothing borrowed", nil, CmdRepay, "unibi", "1", ErrRepayExceedsBorrowed},
		{"repay above balance", []Action{NewSupply("unibi", "200.0"), NewBorrow("atom", "10.0"), NewSupply("atom", "35.0")}, CmdRepay, "atom", "10.0", ErrInsufficientBalance},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultPortfolio()
			for _, a := range tc.setup {
				if err := p.Apply(a.Command, a.Denom, MustParseAmount(a.Amount)); err != nil {
					t.Fatalf("setup %v: %v", a, err)
				}
			}
			before := p.Snapshot()

			err := p.Apply(tc.cmd, tc.denom, MustParseAmount(tc.amount))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("%s %s %s: got error %v, want %v", tc.cmd, tc.denom, tc.amount, err, tc.wantErr)
			}

			after := p.Snapshot()
			for a := range before.Assets() {
				b, _ := after.Asset(a.Denom())
				if !a.Balance().Equal(b.Balance()) || !a.Supplied().Equal(b.Supplied()) || !a.Borrowed().Equal(b.Borrowed()) {
					t.Errorf("rejected %s changed %v into %v", tc.cmd, a, b)
				}
			}
		})
	}
}

func TestPortfolio_HugeExponent(t *testing.T) {
	p := DefaultPortfolio()
	err := p.Supply("unibi", A(decimal.New(1, -300000000)))
	if !errors.Is(err, ErrTooPrecise) {
		t.Fatalf("Supply(1e-300000000) error = %v, want %v", err, ErrTooPrecise)
	}
	if len(err.Error()) > 100 {
		t.Errorf("Supply(1e-300000000) error is %d bytes long", len(err.Error()))
	}
}

func TestPortfolio_RoundTrips(t *testing.T) {
	amounts := []string{"0.1", "1", "25.0", "149.99", "150"}
	for _, amount := range amounts {
		t.Run("supply/withdraw "+amount, func(t *testing.T) {
			p := DefaultPortfolio()
			b0, s0, _ := position(t, p, "usdc")
			if err := p.Supply("usdc", MustParseAmount(amount)); err != nil {
				t.Fatal(err)
			}
			if err := p.Withdraw("usdc", MustParseAmount(amount)); err != nil {
				t.Fatal(err)
			}
			b1, s1, _ := position(t, p, "usdc")
			if b0 != b1 || s0 != s1 {
				t.Errorf("round trip gave (%s, %s), want (%s, %s)", b1, s1, b0, s0)
			}
		})
		t.Run("borrow/repay "+amount, func(t *testing.T) {
			p := DefaultPortfolio()
			if err := p.Supply("unibi", MustParseAmount("200")); err != nil {
				t.Fatal(err)
			}
			b0, _, d0 := position(t, p, "usdc")
			if err := p.Borrow("usdc", MustParseAmount(amount)); err != nil {
				t.Fatal(err)
			}
			if err := p.Repay("usdc", MustParseAmount(amount)); err != nil {
				t.Fatal(err)
			}
			b1, _, d1 := position(t, p, "usdc")
			if b0 != b1 || d0 != d1 {
				t.Errorf("round trip gave (%s, %s), want (%s, %s)", b1, d1, b0, d0)
			}
		})
	}
}

func TestPortfolio_NonNegativeInvariant(t *testing.T) {
	p := DefaultPortfolio()
	// A mix of valid and invalid operations, errors are expected and ignored.
	ops := []Action{
		NewSupply("unibi", "600"), NewSupply("unibi", "600"), NewBorrow("atom", "400"),
		NewBorrow("atom", "100"), NewRepay("atom", "200"), NewWithdraw("unibi", "700"),
		NewSupply("atom", "125"), NewWithdraw("atom", "125"), NewRepay("atom", "100"),
		NewSupply("usdc", "500"), NewBorrow("unibi", "10000"), NewWithdraw("usdc", "0.5"),
	}
	for _, op := range ops {
		_ = p.Apply(op.Command, op.Denom, MustParseAmount(op.Amount))
		for a := range p.Assets() {
			if err := a.Validate(); err != nil {
				t.Fatalf("after %v: %v", op, err)
			}
		}
	}
}

func TestPortfolio_Totals(t *testing.T) {
	p := DefaultPortfolio()
	ops := []Action{
		NewSupply("unibi", "200.0"),
		NewSupply("usdc", "100.5"),
		NewBorrow("atom", "50.0"),
		NewBorrow("usdc", "25.25"),
	}
	for _, op := range ops {
		if err := p.Apply(op.Command, op.Denom, MustParseAmount(op.Amount)); err != nil {
			t.Fatalf("%v: %v", op, err)
		}
		supplied, borrowed := A(0), A(0)
		for a := range p.Assets() {
			supplied = supplied.Add(a.Supplied())
			borrowed = borrowed.Add(a.Borrowed())
		}
		if !p.TotalSupplied().Equal(supplied) {
			t.Errorf("TotalSupplied() = %s, want %s", p.TotalSupplied(), supplied)
		}
		if !p.TotalBorrowed().Equal(borrowed) {
			t.Errorf("TotalBorrowed() = %s, want %s", p.TotalBorrowed(), borrowed)
		}
	}
	if got, want := p.TotalSupplied().Fixed(2), "300.50"; got != want {
		t.Errorf("TotalSupplied() = %s, want %s", got, want)
	}
	if got, want := p.TotalBorrowed().Fixed(2), "75.25"; got != want {
		t.Errorf("TotalBorrowed() = %s, want %s", got, want)
	}
	if got, want := p.BorrowingPower().Fixed(), "225.38"; got != want {
		t.Errorf("BorrowingPower() = %s, want %s", got, want)
	}
}

func TestPortfolio_HealthFactor(t *testing.T) {
	p := DefaultPortfolio()
	if hf := p.HealthFactor(); !hf.IsInfinite() || hf.String() != Infinity {
		t.Errorf("HealthFactor() = %v, want %s", hf, Infinity)
	}
	if err := p.Supply("unibi", MustParseAmount("200.0")); err != nil {
		t.Fatal(err)
	}
	if hf := p.HealthFactor(); !hf.IsInfinite() {
		t.Errorf("HealthFactor() = %v with nothing borrowed, want %s", hf, Infinity)
	}
	if err := p.Borrow("usdc", MustParseAmount("50.0")); err != nil {
		t.Fatal(err)
	}
	hf := p.HealthFactor()
	if hf.IsInfinite() {
		t.Fatalf("HealthFactor() is infinite with 50.0 borrowed")
	}
	if got, want := hf.String(), "4.00"; got != want {
		t.Errorf("HealthFactor() = %s, want %s", got, want)
	}
	if err := p.Repay("usdc", MustParseAmount("50.0")); err != nil {
		t.Fatal(err)
	}
	if hf := p.HealthFactor(); !hf.IsInfinite() {
		t.Errorf("HealthFactor() = %v after full repay, want %s", hf, Infinity)
	}
}

func TestPortfolio_SnapshotIsImmutable(t *testing.T) {
	p := DefaultPortfolio()
	before := p.Snapshot()
	if err := p.Supply("unibi", MustParseAmount("200.0")); err != nil {
		t.Fatal(err)
	}
	a, _ := before.Asset("unibi")
	if got := a.Balance().String(); got != "1000.0" {
		t.Errorf("snapshot taken before supply shows balance %s, want 1000.0", got)
	}
	if got := before.TotalSupplied.Fixed(2); got != "0.00" {
		t.Errorf("snapshot taken before supply shows total %s, want 0.00", got)
	}
}

func TestNewPortfolio(t *testing.T) {
	testCases := []struct {
		name    string
		assets  []Asset
		options []PortfolioOption
		wantErr bool
	}{
		{"default", DefaultAssets(), nil, false},
		{"empty", nil, nil, false},
		{"duplicate denom", append(DefaultAssets(), NewAsset("unibi", "NIBI", "Nibiru", 6, "", A(1))), nil, true},
		{"missing denom", []Asset{NewAsset("", "X", "X", 6, "", A(1))}, nil, true},
		{"negative balance", []Asset{NewAsset("x", "X", "X", 6, "", A(-1))}, nil, true},
		{"negative supplied", []Asset{NewAsset("x", "X", "X", 6, "", A(1)).WithPosition(A(-1), A(0))}, nil, true},
		{"collateral factor above 1", DefaultAssets(), []PortfolioOption{WithCollateralFactor(newDecimal(1.5))}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPortfolio(tc.assets, tc.options...)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewPortfolio() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestPortfolio_CollateralFactor(t *testing.T) {
	p, err := NewPortfolio(DefaultAssets(), WithCollateralFactor(newDecimal(0.5)))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Supply("usdc", MustParseAmount("100")); err != nil {
		t.Fatal(err)
	}
	if err := p.Borrow("usdc", MustParseAmount("50.01")); !errors.Is(err, ErrInsufficientCollateral) {
		t.Errorf("Borrow(50.01) error = %v, want %v", err, ErrInsufficientCollateral)
	}
	if err := p.Borrow("usdc", MustParseAmount("50")); err != nil {
		t.Errorf("Borrow(50) error = %v", err)
	}
}

package moneymarket

import (
	"errors"
	"strings"
	"testing"
)

func TestParseAction(t *testing.T) {
	testCases := []struct {
		line    string
		want    Action
		wantErr bool
	}{
		{"supply unibi 200.0", NewSupply("unibi", "200.0"), false},
		{"  Withdraw   usdc 1 ", NewWithdraw("usdc", "1"), false},
		{"borrow atom 0.5", NewBorrow("atom", "0.5"), false},
		{"repay atom 0.5", NewRepay("atom", "0.5"), false},
		{"", Action{}, true},
		{"lend unibi 1", Action{}, true},
		{"supply unibi", Action{}, true},
		{"supply unibi 1 2", Action{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			got, err := ParseAction(tc.line)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseAction(%q) error = %v, wantErr %v", tc.line, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseAction(%q) = %v, want %v", tc.line, got, tc.want)
			}
		})
	}
}

func TestParseCommandType(t *testing.T) {
	for _, c := range Commands {
		got, err := ParseCommandType(strings.ToUpper(string(c)))
		if err != nil || got != c {
			t.Errorf("ParseCommandType(%q) = %v, %v", c, got, err)
		}
	}
	if _, err := ParseCommandType("liquidate"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("ParseCommandType(liquidate) error = %v, want %v", err, ErrUnknownCommand)
	}
}

func TestAction_Validate(t *testing.T) {
	p := DefaultPortfolio()
	if err := p.Supply("unibi", MustParseAmount("200.0")); err != nil {
		t.Fatal(err)
	}
	if err := p.Borrow("usdc", MustParseAmount("100.0")); err != nil {
		t.Fatal(err)
	}
	s := p.Snapshot()

	testCases := []struct {
		name    string
		action  Action
		wantErr error
	}{
		{"valid supply", NewSupply("unibi", "800"), nil},
		{"valid withdraw", NewWithdraw("unibi", "200"), nil},
		{"valid borrow", NewBorrow("atom", "50"), nil},
		{"valid repay", NewRepay("usdc", "100"), nil},
		{"unknown command", Action{Command: "lend", Denom: "unibi", Amount: "1"}, ErrUnknownCommand},
		{"capitalized supply", Action{Command: "Supply", Denom: "unibi", Amount: "800"}, nil},
		{"upper case supply above balance", Action{Command: "SUPPLY", Denom: "unibi", Amount: "5000"}, ErrInsufficientBalance},
		{"upper case borrow above available", Action{Command: "BORROW", Denom: "atom", Amount: "50.1"}, ErrInsufficientCollateral},
		{"missing denom", NewSupply("", "1"), ErrMissingAsset},
		{"missing amount", NewSupply("unibi", " "), ErrMissingAsset},
		{"unknown asset", NewSupply("btc", "1"), ErrUnknownAsset},
		{"not a number", NewSupply("unibi", "abc"), ErrInvalidAmount},
		{"zero", NewSupply("unibi", "0"), ErrNonPositiveAmount},
		{"negative", NewRepay("usdc", "-5"), ErrNonPositiveAmount},
		{"too precise", NewSupply("unibi", "1.1234567"), ErrTooPrecise},
		{"supply above balance", NewSupply("atom", "25.01"), ErrInsufficientBalance},
		{"withdraw above supplied", NewWithdraw("unibi", "200.5"), ErrInsufficientSupplied},
		{"borrow above available", NewBorrow("atom", "50.1"), ErrInsufficientCollateral},
		{"repay above borrowed", NewRepay("usdc", "100.01"), ErrRepayExceedsBorrowed},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := tc.action.Validate(s)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate(%v) error = %v, want %v", tc.action, err, tc.wantErr)
			}
			if err == nil && amount.String() != MustParseAmount(tc.action.Amount).String() {
				t.Errorf("Validate(%v) = %s, want %s", tc.action, amount, tc.action.Amount)
			}
		})
	}
}

func TestAction_Validate_HugeExponent(t *testing.T) {
	s := DefaultPortfolio().Snapshot()
	for _, amount := range []string{"1e-300000000", "1e300000000"} {
		_, err := NewSupply("unibi", amount).Validate(s)
		if err == nil {
			t.Fatalf("Validate(%s) succeeded", amount)
		}
		if len(err.Error()) > 100 {
			t.Errorf("Validate(%s) error is %d bytes long", amount, len(err.Error()))
		}
	}
}

func TestAction_Validate_NoCollateral(t *testing.T) {
	s := DefaultPortfolio().Snapshot()
	_, err := NewBorrow("usdc", "1").Validate(s)
	if !errors.Is(err, ErrNoCollateral) {
		t.Fatalf("Validate() error = %v, want %v", err, ErrNoCollateral)
	}
	if got, want := err.Error(), "you need to supply assets first before borrowing"; got != want {
		t.Errorf("Validate() error = %q, want %q", got, want)
	}
}

func TestAction_Validate_CollateralMessage(t *testing.T) {
	p := DefaultPortfolio()
	if err := p.Supply("unibi", MustParseAmount("200.0")); err != nil {
		t.Fatal(err)
	}
	_, err := NewBorrow("unibi", "200").Validate(p.Snapshot())
	if err == nil || !strings.Contains(err.Error(), "you can only borrow up to $150.00 based on your collateral") {
		t.Errorf("Validate() error = %v", err)
	}
}

// Validate must agree with the ledger: an action it accepts can be applied.
func TestAction_Validate_AgreesWithPortfolio(t *testing.T) {
	actions := []Action{
		NewSupply("unibi", "300"), NewBorrow("atom", "100"), NewBorrow("atom", "200"),
		NewWithdraw("unibi", "300"), NewRepay("atom", "100"), NewWithdraw("unibi", "301"),
		NewSupply("atom", "125"), NewRepay("atom", "1"), NewBorrow("usdc", "93.75"),
	}
	p := DefaultPortfolio()
	for _, a := range actions {
		amount, verr := a.Validate(p.Snapshot())
		if verr != nil {
			amount = MustParseAmount(a.Amount)
		}
		aerr := p.Apply(a.Command, a.Denom, amount)
		if (verr == nil) != (aerr == nil) {
			t.Errorf("%v: Validate() error = %v, Apply() error = %v", a, verr, aerr)
		}
	}
}

func TestAction_SuccessMessage(t *testing.T) {
	testCases := []struct {
		action Action
		want   string
	}{
		{NewSupply("unibi", "200"), "Successfully supplied 200.0 NIBI! Transaction: 0x12345678..."},
		{NewWithdraw("unibi", "50"), "Successfully withdrew 50.0 NIBI! Transaction: 0x12345678..."},
		{NewBorrow("unibi", "50"), "Successfully borrowed 50.0 NIBI! Transaction: 0x12345678..."},
		{NewRepay("unibi", "0.5"), "Successfully repaid 0.5 NIBI! Transaction: 0x12345678..."},
	}
	for _, tc := range testCases {
		got := tc.action.successMessage("NIBI", MustParseAmount(tc.action.Amount), "0x1234567890abcdef")
		if got != tc.want {
			t.Errorf("successMessage() = %q, want %q", got, tc.want)
		}
	}
}

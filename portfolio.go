package moneymarket

import (
	"fmt"
	"iter"
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// DefaultCollateralFactor is the fraction of the supplied value that can be
// borrowed.
var DefaultCollateralFactor = decimal.RequireFromString("0.75")

// Portfolio is the ordered table of assets held by the user.
//
// The order is the display order. Derived values (totals, health factor,
// borrowing power) are recomputed from the assets on every call.
//
// Every operation replaces the matched asset in a fresh copy of the table,
// previously returned snapshots are never modified.
type Portfolio struct {
	assets           []Asset
	collateralFactor decimal.Decimal
}

// PortfolioOption configures a Portfolio.
type PortfolioOption func(*Portfolio)

// WithCollateralFactor sets the fraction of the supplied value that can be borrowed.
func WithCollateralFactor(factor decimal.Decimal) PortfolioOption {
	return func(p *Portfolio) {
		p.collateralFactor = factor
	}
}

// NewPortfolio creates a portfolio from its seed assets.
func NewPortfolio(assets []Asset, options ...PortfolioOption) (*Portfolio, error) {
	p := &Portfolio{
		assets:           slices.Clone(assets),
		collateralFactor: DefaultCollateralFactor,
	}
	for _, option := range options {
		option(p)
	}

	if p.collateralFactor.IsNegative() || p.collateralFactor.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("collateral factor must be between 0 and 1, got %s", p.collateralFactor)
	}
	for _, a := range p.assets {
		if err := a.Validate(); err != nil {
			return nil, err
		}
	}
	if dups := lo.FindDuplicatesBy(p.assets, func(a Asset) string { return a.denom }); len(dups) > 0 {
		return nil, fmt.Errorf("%w %q", ErrDuplicateAsset, dups[0].denom)
	}
	return p, nil
}

// DefaultAssets returns the seed table of the demo: NIBI, USDC and ATOM.
func DefaultAssets() []Asset {
	return []Asset{
		NewAsset("unibi", "NIBI", "Nibiru", 6, "12.5%", MustParseAmount("1000.0")),
		NewAsset("usdc", "USDC", "USD Coin", 6, "8.2%", MustParseAmount("500.0")),
		NewAsset("atom", "ATOM", "Cosmos Hub", 6, "15.3%", MustParseAmount("25.0")),
	}
}

// DefaultPortfolio returns a portfolio seeded with DefaultAssets.
func DefaultPortfolio() *Portfolio {
	p, err := NewPortfolio(DefaultAssets())
	if err != nil {
		panic(err) // the default table is valid
	}
	return p
}

// Assets returns an iterator over the assets in display order.
func (p *Portfolio) Assets() iter.Seq[Asset] {
	return slices.Values(p.assets)
}

// Len returns the number of assets.
func (p *Portfolio) Len() int { return len(p.assets) }

// Asset returns the asset with this denom.
func (p *Portfolio) Asset(denom string) (Asset, bool) {
	a, _, ok := lo.FindIndexOf(p.assets, func(a Asset) bool { return a.denom == denom })
	return a, ok
}

// CollateralFactor returns the fraction of the supplied value that can be borrowed.
func (p *Portfolio) CollateralFactor() decimal.Decimal { return p.collateralFactor }

// TotalSupplied returns the sum of all supplied quantities.
func (p *Portfolio) TotalSupplied() Amount {
	return lo.Reduce(p.assets, func(total Amount, a Asset, _ int) Amount {
		return total.Add(a.supplied)
	}, A(0))
}

// TotalBorrowed returns the sum of all borrowed quantities.
func (p *Portfolio) TotalBorrowed() Amount {
	return lo.Reduce(p.assets, func(total Amount, a Asset, _ int) Amount {
		return total.Add(a.borrowed)
	}, A(0))
}

// HealthFactor returns TotalSupplied / TotalBorrowed, infinite if nothing is borrowed.
func (p *Portfolio) HealthFactor() HealthFactor {
	return NewHealthFactor(p.TotalSupplied(), p.TotalBorrowed())
}

// BorrowingPower returns the maximum borrowable value: a fixed fraction of
// the total supplied value.
func (p *Portfolio) BorrowingPower() Money {
	return Value(Amount{value: p.TotalSupplied().value.Mul(p.collateralFactor)})
}

// AvailableToBorrow returns the borrowing power not yet used by outstanding borrows.
func (p *Portfolio) AvailableToBorrow() Money {
	available := p.BorrowingPower().value.Sub(p.TotalBorrowed().value)
	if available.IsNegative() {
		available = decimal.Zero
	}
	return Value(Amount{value: available})
}

// Supply moves 'amount' from the wallet balance to the supplied collateral.
func (p *Portfolio) Supply(denom string, amount Amount) error {
	return p.update(CmdSupply, denom, amount, func(a Asset) (Asset, error) {
		if amount.GreaterThan(a.balance) {
			return a, fmt.Errorf("%w: balance is %s", ErrInsufficientBalance, a.balance)
		}
		a.balance = a.balance.Sub(amount)
		a.supplied = a.supplied.Add(amount)
		return a, nil
	})
}

// Withdraw moves 'amount' from the supplied collateral back to the wallet balance.
func (p *Portfolio) Withdraw(denom string, amount Amount) error {
	return p.update(CmdWithdraw, denom, amount, func(a Asset) (Asset, error) {
		if amount.GreaterThan(a.supplied) {
			return a, fmt.Errorf("%w: supplied is %s", ErrInsufficientSupplied, a.supplied)
		}
		a.balance = a.balance.Add(amount)
		a.supplied = a.supplied.Sub(amount)
		return a, nil
	})
}

// Borrow draws 'amount' against the collateral into the wallet balance.
//
// The collateral check is enforced here: there must be something supplied,
// and 'amount' must fit in AvailableToBorrow. Outstanding borrows count
// against the limit, so this is stricter than checking every borrow against
// the full BorrowingPower.
func (p *Portfolio) Borrow(denom string, amount Amount) error {
	return p.update(CmdBorrow, denom, amount, func(a Asset) (Asset, error) {
		if p.TotalSupplied().IsZero() {
			return a, ErrNoCollateral
		}
		if available := p.AvailableToBorrow(); amount.Decimal().GreaterThan(available.Decimal()) {
			return a, fmt.Errorf("%w: you can only borrow up to %s based on your collateral", ErrInsufficientCollateral, available)
		}
		a.balance = a.balance.Add(amount)
		a.borrowed = a.borrowed.Add(amount)
		return a, nil
	})
}

// Repay gives back 'amount' of a borrow from the wallet balance.
func (p *Portfolio) Repay(denom string, amount Amount) error {
	return p.update(CmdRepay, denom, amount, func(a Asset) (Asset, error) {
		if amount.GreaterThan(a.borrowed) {
			return a, fmt.Errorf("%w: borrowed is %s", ErrRepayExceedsBorrowed, a.borrowed)
		}
		if amount.GreaterThan(a.balance) {
			return a, fmt.Errorf("%w: balance is %s", ErrInsufficientBalance, a.balance)
		}
		a.balance = a.balance.Sub(amount)
		a.borrowed = a.borrowed.Sub(amount)
		return a, nil
	})
}

// update locates the asset, checks the amount, applies 'op' and commits the
// result in a new copy of the table. On error the portfolio is unchanged.
func (p *Portfolio) update(cmd CommandType, denom string, amount Amount, op func(Asset) (Asset, error)) error {
	if err := amount.checkBounds(); err != nil {
		return fmt.Errorf("cannot %s: %w", cmd, err)
	}
	asset, i, ok := lo.FindIndexOf(p.assets, func(a Asset) bool { return a.denom == denom })
	if !ok {
		return fmt.Errorf("cannot %s %s: %w %q", cmd, amount, ErrUnknownAsset, denom)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("cannot %s %s %s: %w", cmd, amount, asset.symbol, ErrNonPositiveAmount)
	}
	if err := asset.checkPrecision(amount); err != nil {
		return fmt.Errorf("cannot %s: %w", cmd, err)
	}

	updated, err := op(asset)
	if err != nil {
		return fmt.Errorf("cannot %s %s %s: %w", cmd, amount, asset.symbol, err)
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("cannot %s %s %s: %w", cmd, amount, asset.symbol, err)
	}

	next := slices.Clone(p.assets)
	next[i] = updated
	p.assets = next
	return nil
}

// Apply executes the ledger operation named by 'cmd', in any case.
func (p *Portfolio) Apply(cmd CommandType, denom string, amount Amount) error {
	cmd, err := ParseCommandType(string(cmd))
	if err != nil {
		return err
	}
	switch cmd {
	case CmdSupply:
		return p.Supply(denom, amount)
	case CmdWithdraw:
		return p.Withdraw(denom, amount)
	case CmdBorrow:
		return p.Borrow(denom, amount)
	case CmdRepay:
		return p.Repay(denom, amount)
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, cmd)
	}
}

package moneymarket

import "errors"

// Validation failures. They are recoverable: the action is simply not
// applied and the portfolio is left unchanged.
var (
	ErrMissingAsset           = errors.New("please select an asset and enter an amount")
	ErrMissingAmount          = errors.New("please select an asset and enter an amount")
	ErrUnknownAsset           = errors.New("unknown asset")
	ErrDuplicateAsset         = errors.New("duplicate asset")
	ErrUnknownCommand         = errors.New("unknown command")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrTooPrecise             = errors.New("amount has too many decimal places")
	ErrNonPositiveAmount      = errors.New("amount must be greater than 0")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInsufficientSupplied   = errors.New("insufficient supplied amount")
	ErrRepayExceedsBorrowed   = errors.New("repay amount exceeds borrowed amount")
	ErrNoCollateral           = errors.New("you need to supply assets first before borrowing")
	ErrInsufficientCollateral = errors.New("insufficient collateral")
	ErrNegativeQuantity       = errors.New("quantity must not be negative")
)

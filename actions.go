package moneymarket

import (
	"errors"
	"fmt"
	"strings"
)

// CommandType is a typed string for identifying ledger operations.
type CommandType string

// Command types of the four ledger operations.
const (
	CmdSupply   CommandType = "supply"
	CmdWithdraw CommandType = "withdraw"
	CmdBorrow   CommandType = "borrow"
	CmdRepay    CommandType = "repay"
)

// Commands lists all command types in display order.
var Commands = []CommandType{CmdSupply, CmdWithdraw, CmdBorrow, CmdRepay}

// ParseCommandType parses a string into a CommandType.
func ParseCommandType(s string) (CommandType, error) {
	c := CommandType(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CmdSupply, CmdWithdraw, CmdBorrow, CmdRepay:
		return c, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownCommand, s)
	}
}

// pastTense returns the verb used in success messages.
func (c CommandType) pastTense() string {
	switch c {
	case CmdSupply:
		return "supplied"
	case CmdWithdraw:
		return "withdrew"
	case CmdBorrow:
		return "borrowed"
	case CmdRepay:
		return "repaid"
	default:
		return string(c)
	}
}

// Action is a user request to run one ledger operation. Denom and Amount are
// kept as typed by the user, they are checked by Validate.
type Action struct {
	Command CommandType `json:"command"`
	Denom   string      `json:"denom"`
	Amount  string      `json:"amount"`
}

func NewSupply(denom, amount string) Action   { return Action{CmdSupply, denom, amount} }
func NewWithdraw(denom, amount string) Action { return Action{CmdWithdraw, denom, amount} }
func NewBorrow(denom, amount string) Action   { return Action{CmdBorrow, denom, amount} }
func NewRepay(denom, amount string) Action    { return Action{CmdRepay, denom, amount} }

// ParseAction parses a line like "supply unibi 200.0".
func ParseAction(line string) (Action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Action{}, errors.New("empty action")
	}
	cmd, err := ParseCommandType(fields[0])
	if err != nil {
		return Action{}, err
	}
	if len(fields) != 3 {
		return Action{}, fmt.Errorf("usage: %s <denom> <amount>: %w", cmd, ErrMissingAsset)
	}
	return Action{Command: cmd, Denom: fields[1], Amount: fields[2]}, nil
}

func (a Action) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", a.Command, a.Denom, a.Amount))
}

// Validate checks the action against the portfolio state the way the dialog
// does before submitting anything, and returns the parsed amount.
//
// The checks are ordered so that the first failure is the one the user
// should fix first.
func (a Action) Validate(s Snapshot) (Amount, error) {
	cmd, err := ParseCommandType(string(a.Command))
	if err != nil {
		return Amount{}, err
	}
	if strings.TrimSpace(a.Denom) == "" || strings.TrimSpace(a.Amount) == "" {
		return Amount{}, ErrMissingAsset
	}
	asset, ok := s.Asset(a.Denom)
	if !ok {
		return Amount{}, fmt.Errorf("%w %q", ErrUnknownAsset, a.Denom)
	}
	amount, err := ParseAmount(a.Amount)
	if err != nil {
		return Amount{}, err
	}
	if !amount.IsPositive() {
		return Amount{}, ErrNonPositiveAmount
	}
	if err := asset.checkPrecision(amount); err != nil {
		return Amount{}, err
	}

	switch cmd {
	case CmdSupply:
		if amount.GreaterThan(asset.Balance()) {
			return Amount{}, ErrInsufficientBalance
		}
	case CmdWithdraw:
		if amount.GreaterThan(asset.Supplied()) {
			return Amount{}, ErrInsufficientSupplied
		}
	case CmdBorrow:
		if s.TotalSupplied.IsZero() {
			return Amount{}, ErrNoCollateral
		}
		if amount.Decimal().GreaterThan(s.AvailableToBorrow.Decimal()) {
			return Amount{}, fmt.Errorf("%w: you can only borrow up to %s based on your collateral", ErrInsufficientCollateral, s.AvailableToBorrow)
		}
	case CmdRepay:
		if amount.GreaterThan(asset.Borrowed()) {
			return Amount{}, ErrRepayExceedsBorrowed
		}
		if amount.GreaterThan(asset.Balance()) {
			return Amount{}, ErrInsufficientBalance
		}
	}
	return amount, nil
}

// successMessage is the confirmation shown once the action has been applied.
func (a Action) successMessage(symbol string, amount Amount, txHash string) string {
	short := txHash
	if len(short) > 10 {
		short = short[:10]
	}
	return fmt.Sprintf("Successfully %s %s %s! Transaction: %s...", a.Command.pastTense(), amount, symbol, short)
}

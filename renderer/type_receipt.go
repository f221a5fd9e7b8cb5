package renderer

import (
	"time"

	"github.com/etnz/moneymarket"
)

// Receipt is the data of a receipt view.
type Receipt struct {
	ID      string             `json:"id"`
	Command string             `json:"command"`
	Denom   string             `json:"denom"`
	Symbol  string             `json:"symbol"`
	Amount  moneymarket.Amount `json:"amount"`
	TxHash  string             `json:"txHash"`
	Message string             `json:"message"`
	Time    string             `json:"time"`
}

// NewReceipt creates a new Receipt from an applied action.
func NewReceipt(r moneymarket.Receipt) *Receipt {
	return &Receipt{
		ID:      r.ID,
		Command: string(r.Action.Command),
		Denom:   r.Action.Denom,
		Symbol:  r.Symbol,
		Amount:  r.Amount,
		TxHash:  r.TxHash,
		Message: r.Message,
		Time:    r.Time.UTC().Format(time.DateTime),
	}
}

// ShortHash returns the first 10 characters of the transaction hash.
func (r *Receipt) ShortHash() string {
	if len(r.TxHash) > 10 {
		return r.TxHash[:10] + "..."
	}
	return r.TxHash
}

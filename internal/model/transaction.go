package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one classified statement row.
type Transaction struct {
	Date          time.Time
	Description   string
	Amount        decimal.Decimal     // negative = outflow, positive = inflow
	Balance       decimal.NullDecimal // running balance after the row, when exported
	Account       string              // resolved source ledger account
	Counter       string              // counter account chosen by classification
	TransferGroup int                 // shared by both legs of a paired transfer, 0 = unpaired
}

// Outgoing reports whether the transaction moves money out of Account.
func (t Transaction) Outgoing() bool {
	return t.Amount.IsNegative()
}

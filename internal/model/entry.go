package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posting is one leg of a ledger entry.
type Posting struct {
	Account string
	Amount  decimal.Decimal
}

// Entry is a dated, narrated set of balanced postings.
type Entry struct {
	Date      time.Time
	Payee     string
	Narration string
	Postings  []Posting
}

// Sum returns the sum of all posting amounts. Zero for a balanced entry.
func (e Entry) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, p := range e.Postings {
		total = total.Add(p.Amount)
	}
	return total
}

// BalanceAssertion states an account's expected balance at end of day.
// It is not part of double-entry balancing.
type BalanceAssertion struct {
	Date    time.Time
	Account string
	Amount  decimal.Decimal
}

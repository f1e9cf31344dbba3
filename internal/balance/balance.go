// Package balance derives balance assertions from the running-balance
// column of a statement.
package balance

import (
	"github.com/skanbean-dev/skanbean/internal/config"
	"github.com/skanbean-dev/skanbean/internal/model"
)

// Assertions derives balance assertions for one account from its ordered
// transactions. With daily granularity each calendar day present in the
// data yields one assertion from its last row carrying a balance; with
// file_end only the final balance-carrying row does. Statements without
// a running-balance column yield nothing: assertions are best effort,
// never a reason to fail the run.
func Assertions(account string, txns []model.Transaction, granularity config.Granularity) []model.BalanceAssertion {
	var withBalance []model.Transaction
	for _, t := range txns {
		if t.Balance.Valid {
			withBalance = append(withBalance, t)
		}
	}
	if len(withBalance) == 0 {
		return nil
	}

	if granularity == config.GranularityFileEnd {
		last := withBalance[len(withBalance)-1]
		return []model.BalanceAssertion{{
			Date:    last.Date,
			Account: account,
			Amount:  last.Balance.Decimal,
		}}
	}

	// Daily: the last balance-carrying row of each calendar day wins,
	// even when a day's rows are not adjacent in the input.
	byDay := make(map[string]int) // day -> index into assertions
	var assertions []model.BalanceAssertion
	for _, t := range withBalance {
		day := t.Date.Format("2006-01-02")
		if i, ok := byDay[day]; ok {
			assertions[i].Amount = t.Balance.Decimal
			continue
		}
		byDay[day] = len(assertions)
		assertions = append(assertions, model.BalanceAssertion{
			Date:    t.Date,
			Account: account,
			Amount:  t.Balance.Decimal,
		})
	}
	return assertions
}

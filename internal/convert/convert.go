// Package convert runs the classification pipeline: resolved statements
// in, an ordered stream of balanced ledger directives out. A run is a
// single synchronous pass with no state shared across runs.
package convert

import (
	"fmt"
	"strings"

	"github.com/skanbean-dev/skanbean/internal/assemble"
	"github.com/skanbean-dev/skanbean/internal/balance"
	"github.com/skanbean-dev/skanbean/internal/config"
	"github.com/skanbean-dev/skanbean/internal/model"
	"github.com/skanbean-dev/skanbean/internal/resolver"
	"github.com/skanbean-dev/skanbean/internal/rules"
	"github.com/skanbean-dev/skanbean/internal/statement"
	"github.com/skanbean-dev/skanbean/internal/transfer"
)

// Run converts parsed statements into the ordered output stream. Any
// fatal error (an unmapped account, a defect in assembly) yields no
// output at all: emission is all or nothing.
func Run(cfg *config.Config, stmts []*statement.Statement) ([]assemble.Item, error) {
	accounts := resolver.New(cfg.Accounts, cfg.DefaultAccount)

	// Resolve every statement's account before emitting anything.
	txns, spans, err := collect(accounts, stmts)
	if err != nil {
		return nil, err
	}

	classifier := transfer.NewClassifier(cfg.Transfers, accounts)
	engine := rules.NewEngine(cfg.Rules)

	// Transfer detection takes precedence: a transfer candidate is never
	// re-classified by keyword rules.
	var candidates []transfer.Candidate
	for i := range txns {
		if cand, ok := classifier.Candidate(i, txns[i]); ok {
			candidates = append(candidates, cand)
			continue
		}
		txns[i].Counter = engine.Classify(txns[i].Description).Account
	}

	pairs := classifier.PairLegs(txns, candidates)
	pairedGroups := make(map[int]int, len(pairs)*2)
	for _, p := range pairs {
		pairedGroups[p.Out] = p.Group
		pairedGroups[p.In] = p.Group
	}
	for i, group := range pairedGroups {
		txns[i].TransferGroup = group
	}
	for _, cand := range candidates {
		if _, ok := pairedGroups[cand.Index]; ok {
			continue
		}
		if cand.Destination != "" {
			txns[cand.Index].Counter = cand.Destination
		} else {
			txns[cand.Index].Counter = classifier.ClassifyAccount()
		}
	}

	// Assertions are derived per resolved account, not per file: two
	// statements mapping to the same account must not duplicate a day.
	var assertions []model.BalanceAssertion
	if cfg.Balances.Enabled {
		byAccount := make(map[string][]model.Transaction, len(spans))
		var accountOrder []string
		for _, span := range spans {
			if _, ok := byAccount[span.account]; !ok {
				accountOrder = append(accountOrder, span.account)
			}
			byAccount[span.account] = append(byAccount[span.account], txns[span.start:span.end]...)
		}
		for _, account := range accountOrder {
			assertions = append(assertions,
				balance.Assertions(account, byAccount[account], cfg.Balances.Granularity)...)
		}
	}

	items := assemble.Stream(txns, pairs, assertions, assemble.Options{
		PayeeFromDescription: cfg.InferPayee(),
	})

	if verrs := assemble.Validate(items); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("assembled stream failed validation: %s", strings.Join(msgs, "; "))
	}
	return items, nil
}

// span marks one statement's transactions inside the run-wide slice.
type span struct {
	account string
	start   int
	end     int
}

func collect(accounts *resolver.Resolver, stmts []*statement.Statement) ([]model.Transaction, []span, error) {
	var txns []model.Transaction
	var spans []span
	for _, stmt := range stmts {
		account, err := accounts.Resolve(stmt.AccountNumber)
		if err != nil {
			return nil, nil, err
		}
		start := len(txns)
		for _, row := range stmt.Rows {
			txns = append(txns, model.Transaction{
				Date:        row.Date,
				Description: row.Description,
				Amount:      row.Amount,
				Balance:     row.Balance,
				Account:     account,
			})
		}
		spans = append(spans, span{account: account, start: start, end: len(txns)})
	}
	return txns, spans, nil
}

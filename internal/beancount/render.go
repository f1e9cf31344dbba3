// Package beancount renders the output stream in Beancount's text
// grammar. The format is matched byte for byte so downstream Beancount
// tooling parses it unchanged.
package beancount

import (
	"fmt"
	"io"
	"strings"

	"github.com/skanbean-dev/skanbean/internal/assemble"
	"github.com/skanbean-dev/skanbean/internal/model"
)

const dateFormat = "2006-01-02"

// RenderEntry formats one transaction entry:
//
//	2025-08-25 * "payee" "narration"
//	  Assets:SE:Skandia:Checking  -1000 SEK
//	  Assets:SE:Skandia:Savings  1000 SEK
func RenderEntry(e *model.Entry, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s * %q %q", e.Date.Format(dateFormat), e.Payee, e.Narration)
	for _, p := range e.Postings {
		fmt.Fprintf(&b, "\n  %s  %s %s", p.Account, p.Amount.String(), currency)
	}
	return b.String()
}

// RenderAssertion formats a balance directive:
//
//	2025-08-26 balance Assets:SE:Skandia:Checking 1200 SEK
func RenderAssertion(a *model.BalanceAssertion, currency string) string {
	return fmt.Sprintf("%s balance %s %s %s", a.Date.Format(dateFormat), a.Account, a.Amount.String(), currency)
}

// Write renders the full stream, one blank line between directives.
func Write(w io.Writer, items []assemble.Item, currency string) error {
	for i, item := range items {
		if i > 0 {
			if _, err := fmt.Fprint(w, "\n"); err != nil {
				return fmt.Errorf("writing ledger: %w", err)
			}
		}
		var text string
		if item.Entry != nil {
			text = RenderEntry(item.Entry, currency)
		} else {
			text = RenderAssertion(item.Assertion, currency)
		}
		if _, err := fmt.Fprintln(w, text); err != nil {
			return fmt.Errorf("writing ledger: %w", err)
		}
	}
	return nil
}
